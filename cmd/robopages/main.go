// SPDX-License-Identifier: MPL-2.0

// robopages is a CLI for "man pages for robots": Markdown books of
// named, categorized, executable functions that can be listed, exported
// as LLM tools, served over HTTP, and executed locally or in
// containers.
package main

func main() {
	Execute()
}

// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const templateBook = `---
description: Example robopage with one page of functions.
---

# Example

## Greetings

Functions that greet things. Replace these with your own tooling.

### say_hello

Print a greeting for the given name.

` + "```" + `bash name=say_hello
echo "hello ${ name or world }"
` + "```" + `

### show_date

Print the current date. This one declares a container image, used as a
fallback when the interpreter is missing on the host.

` + "```" + `python name=show_date image=python:3-alpine
import datetime

print(datetime.date.today().isoformat())
` + "```" + `
`

var createCmd = &cobra.Command{
	Use:   "create [filename]",
	Short: "Write a template robopage to start from",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "robopage.md"
		if len(args) == 1 {
			name = args[0]
		}
		if _, err := os.Stat(name); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", name)
		}
		if err := os.WriteFile(name, []byte(templateBook), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		cmd.Println(SuccessStyle.Render("created ") + name)
		return nil
	},
}

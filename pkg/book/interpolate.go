// SPDX-License-Identifier: MPL-2.0

package book

import (
	"os"
	"regexp"
	"strings"
)

// placeholderPattern matches ${name} and ${name or default}
// interpolation placeholders. Names are identifier-shaped; whitespace
// inside the braces is tolerated.
var placeholderPattern = regexp.MustCompile(`\$\{\s*([A-Za-z_][A-Za-z0-9_]*)(?:\s+or\s+([^}]*?))?\s*\}`)

// cwdParameter is pre-bound to the process working directory at
// interpolation time and never surfaces as a user parameter.
const cwdParameter = "cwd"

// Parameters derives the function's parameter list from its body
// placeholders, in first-appearance order. A placeholder with no
// default is required. Repeated names keep their first declaration.
func (f *Function) Parameters() []Parameter {
	var params []Parameter
	seen := map[string]bool{}

	for _, m := range placeholderPattern.FindAllStringSubmatch(f.Body.Text, -1) {
		name := m[1]
		if name == cwdParameter || seen[name] {
			continue
		}
		seen[name] = true
		def := unquoteDefault(m[2])
		params = append(params, Parameter{
			Name:     name,
			Default:  def,
			Required: m[2] == "",
		})
	}
	return params
}

// Render interpolates the function body with the given values.
func (f *Function) Render(values map[string]string) (string, error) {
	return Interpolate(f.Body.Text, values)
}

// Interpolate replaces every placeholder in text. Supplied values win
// over declared defaults; a required placeholder with no value fails
// with MissingParameterError naming the parameter. The cwd placeholder
// resolves to the process working directory unless a value overrides
// it.
func Interpolate(text string, values map[string]string) (string, error) {
	var firstErr error

	out := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		m := placeholderPattern.FindStringSubmatch(match)
		name, def := m[1], m[2]

		if v, ok := values[name]; ok {
			return v
		}
		if name == cwdParameter {
			wd, err := os.Getwd()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			return wd
		}
		if def != "" {
			return unquoteDefault(def)
		}
		if firstErr == nil {
			firstErr = &MissingParameterError{Parameter: name}
		}
		return match
	})

	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// unquoteDefault trims whitespace and one pair of surrounding quotes
// from a placeholder default.
func unquoteDefault(def string) string {
	def = strings.TrimSpace(def)
	if len(def) >= 2 {
		if (def[0] == '"' && def[len(def)-1] == '"') || (def[0] == '\'' && def[len(def)-1] == '\'') {
			return def[1 : len(def)-1]
		}
	}
	return def
}

// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GangGreenTemperTatum/robopages-cli/internal/config"
	"github.com/GangGreenTemperTatum/robopages-cli/internal/issue"
	"github.com/GangGreenTemperTatum/robopages-cli/internal/runtime"
	"github.com/GangGreenTemperTatum/robopages-cli/internal/tui"
	"github.com/GangGreenTemperTatum/robopages-cli/pkg/book"
	"github.com/spf13/cobra"
)

var (
	runVirtual        bool
	runForceContainer bool
	runYes            bool
	runDefines        []string
)

var runCmd = &cobra.Command{
	Use:   "run <function>",
	Short: "Execute one function from the book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("virtual") {
			runVirtual = config.Get().Shell.Virtual
		}

		b, err := loadBook("")
		if err != nil {
			return err
		}

		fn, err := findFunction(b, args[0])
		if err != nil {
			renderIssue(issue.FunctionNotFoundId)
			return err
		}

		values, err := parseDefines(runDefines)
		if err != nil {
			return err
		}
		if err := promptForParameters(fn, values); err != nil {
			return err
		}

		script, err := fn.Render(values)
		if err != nil {
			return err
		}
		if !runYes {
			confirmed, err := tui.Confirm(tui.ConfirmOptions{
				Title:       fmt.Sprintf("Run %q?", fn.Name),
				Description: script,
				Default:     true,
			})
			if err != nil {
				return err
			}
			if !confirmed {
				cmd.Println(SubtitleStyle.Render("aborted"))
				return nil
			}
		}

		executor := runtime.NewExecutor()
		res, err := executor.Execute(cmd.Context(), fn, values, runtime.Options{
			Virtual:        runVirtual,
			ForceContainer: runForceContainer,
			Stream:         true,
		})
		if err != nil {
			var missing *runtime.MissingInterpreterError
			if errors.As(err, &missing) {
				renderIssue(issue.InterpreterMissingId)
			}
			return err
		}
		if res.ExitCode != 0 {
			return &ExitError{Code: res.ExitCode}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runVirtual, "virtual", false, "run shell functions in the embedded interpreter")
	runCmd.Flags().BoolVar(&runForceContainer, "force-container", false, "run in the declared container image")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "skip the execution confirmation")
	runCmd.Flags().StringArrayVarP(&runDefines, "define", "d", nil, "parameter value as name=value, repeatable")
}

// findFunction resolves a name to exactly one function: a unique plain
// name first, then a qualified tool name.
func findFunction(b *book.Book, name string) (*book.Function, error) {
	refs := b.FindFunction(name)
	switch len(refs) {
	case 1:
		return refs[0].Function, nil
	case 0:
		tools, err := b.ToolSet()
		if err != nil {
			return nil, err
		}
		if tool, ok := tools.Find(name); ok {
			return tool.Function, nil
		}
		return nil, fmt.Errorf("function %q not found in the book", name)
	default:
		var pages []string
		for _, ref := range refs {
			pages = append(pages, ref.Page.ID())
		}
		return nil, fmt.Errorf("function %q is declared by several pages (%s); use its qualified name",
			name, strings.Join(pages, ", "))
	}
}

// parseDefines turns --define name=value flags into a value map.
func parseDefines(defines []string) (map[string]string, error) {
	values := map[string]string{}
	for _, def := range defines {
		name, value, ok := strings.Cut(def, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --define %q: want name=value", def)
		}
		values[name] = value
	}
	return values, nil
}

// promptForParameters interactively collects values for parameters not
// supplied via --define. Parameters with defaults show them as the
// prompt default.
func promptForParameters(fn *book.Function, values map[string]string) error {
	for _, param := range fn.Parameters() {
		if _, ok := values[param.Name]; ok {
			continue
		}
		title := fmt.Sprintf("Value for %q", param.Name)
		if !param.Required {
			title += fmt.Sprintf(" (default %q)", param.Default)
		}
		value, err := tui.Prompt(tui.PromptOptions{
			Title:       title,
			Placeholder: param.Default,
			Default:     param.Default,
		})
		if err != nil {
			return err
		}
		if value == "" && param.Required {
			return fmt.Errorf("parameter %q requires a value", param.Name)
		}
		if value != "" {
			values[param.Name] = value
		}
	}
	return nil
}

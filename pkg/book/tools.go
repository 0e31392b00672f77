// SPDX-License-Identifier: MPL-2.0

package book

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tool is one exported function under its flat tool-calling name.
type Tool struct {
	// Name is the exported tool name, unique within the ToolSet.
	Name string
	// Page declares the function.
	Page *Page
	// Function is the exported function.
	Function *Function
}

// ToolSet flattens a book into the namespace used by function-calling
// clients: every function under one unique name.
type ToolSet struct {
	// Tools holds the exported tools in document order.
	Tools []Tool
}

// ToolSet exports the book's functions into a flat namespace. A
// function name declared by a single page keeps its plain name; names
// declared by several pages are qualified as "<page>_<function>" for
// every declaring page. A collision that survives qualification fails
// with ToolNameCollisionError.
func (b *Book) ToolSet() (*ToolSet, error) {
	counts := map[string]int{}
	for _, p := range b.Pages {
		for _, f := range p.Functions {
			counts[f.Name]++
		}
	}

	set := &ToolSet{}
	owners := map[string]string{}
	for _, p := range b.Pages {
		for _, f := range p.Functions {
			name := f.Name
			if counts[f.Name] > 1 {
				name = qualifyToolName(p.Name, f.Name)
			}
			if owner, taken := owners[name]; taken {
				return nil, &ToolNameCollisionError{Name: name, Pages: []string{owner, p.ID()}}
			}
			owners[name] = p.ID()
			set.Tools = append(set.Tools, Tool{Name: name, Page: p, Function: f})
		}
	}
	return set, nil
}

// Find returns the tool exported under the given name.
func (ts *ToolSet) Find(name string) (Tool, bool) {
	for _, t := range ts.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// qualifyToolName builds the qualified export name for a function whose
// plain name is ambiguous: the page name lowercased with every
// non-alphanumeric run flattened to "_", then the function name.
func qualifyToolName(page, function string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(page) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String() + "_" + function
}

type (
	toolEntry struct {
		Type     string       `json:"type"`
		Function toolFunction `json:"function"`
	}

	toolFunction struct {
		Name        string              `json:"name"`
		Description string              `json:"description"`
		Parameters  toolParameterSchema `json:"parameters"`
	}

	toolParameterSchema struct {
		Type       string                  `json:"type"`
		Properties map[string]toolProperty `json:"properties"`
		Required   []string                `json:"required"`
	}

	toolProperty struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	}
)

// MarshalJSON renders the set in the OpenAI tool declaration shape:
//
//	[{"type":"function","function":{"name":...,"description":...,
//	  "parameters":{"type":"object","properties":{...},"required":[...]}}}]
func (ts *ToolSet) MarshalJSON() ([]byte, error) {
	entries := make([]toolEntry, 0, len(ts.Tools))
	for _, t := range ts.Tools {
		desc := t.Function.Description
		if desc == "" {
			desc = t.Page.Description
		}

		schema := toolParameterSchema{
			Type:       "object",
			Properties: map[string]toolProperty{},
			Required:   []string{},
		}
		for _, param := range t.Function.Parameters() {
			prop := toolProperty{
				Type:        "string",
				Description: fmt.Sprintf("Value for the %s parameter.", param.Name),
			}
			if !param.Required {
				prop.Description += fmt.Sprintf(" Defaults to %q.", param.Default)
			} else {
				schema.Required = append(schema.Required, param.Name)
			}
			schema.Properties[param.Name] = prop
		}

		entries = append(entries, toolEntry{
			Type: "function",
			Function: toolFunction{
				Name:        t.Name,
				Description: desc,
				Parameters:  schema,
			},
		})
	}
	return json.Marshal(entries)
}

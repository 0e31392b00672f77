// SPDX-License-Identifier: MPL-2.0

package book

import (
	"errors"
	"os"
	"reflect"
	"testing"
)

func TestParameters(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []Parameter
	}{
		{
			name:     "no placeholders",
			body:     "echo hello",
			expected: nil,
		},
		{
			name: "required parameter",
			body: "nmap ${target}",
			expected: []Parameter{
				{Name: "target", Required: true},
			},
		},
		{
			name: "parameter with default",
			body: "nmap -p ${ports or 1-1024} ${target}",
			expected: []Parameter{
				{Name: "ports", Default: "1-1024"},
				{Name: "target", Required: true},
			},
		},
		{
			name: "quoted default",
			body: `curl -A ${agent or "robo pages"} ${url}`,
			expected: []Parameter{
				{Name: "agent", Default: "robo pages"},
				{Name: "url", Required: true},
			},
		},
		{
			name: "whitespace inside braces",
			body: "scan ${ target } ${ rate or 100 }",
			expected: []Parameter{
				{Name: "target", Required: true},
				{Name: "rate", Default: "100"},
			},
		},
		{
			name: "repeated name keeps first declaration",
			body: "echo ${target}; ping ${target or localhost}",
			expected: []Parameter{
				{Name: "target", Required: true},
			},
		},
		{
			name:     "cwd never surfaces as a parameter",
			body:     "ls ${cwd}",
			expected: nil,
		},
		{
			name:     "malformed placeholder ignored",
			body:     "echo ${1bad} ${}",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Function{Name: "f", Body: Body{Text: tt.body}}
			got := f.Parameters()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Parameters() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		values   map[string]string
		expected string
	}{
		{
			name:     "supplied value",
			text:     "nmap ${target}",
			values:   map[string]string{"target": "10.0.0.1"},
			expected: "nmap 10.0.0.1",
		},
		{
			name:     "value wins over default",
			text:     "nmap -p ${ports or 1-1024}",
			values:   map[string]string{"ports": "443"},
			expected: "nmap -p 443",
		},
		{
			name:     "default applies when value missing",
			text:     "nmap -p ${ports or 1-1024}",
			values:   nil,
			expected: "nmap -p 1-1024",
		},
		{
			name:     "quoted default unquoted",
			text:     `echo ${msg or 'hi there'}`,
			values:   nil,
			expected: "echo hi there",
		},
		{
			name:     "no placeholders",
			text:     "echo plain",
			values:   map[string]string{"unused": "x"},
			expected: "echo plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpolate(tt.text, tt.values)
			if err != nil {
				t.Fatalf("Interpolate() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Interpolate() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInterpolateMissingRequired(t *testing.T) {
	_, err := Interpolate("nmap ${target}", nil)

	var missing *MissingParameterError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingParameterError", err)
	}
	if missing.Parameter != "target" {
		t.Errorf("Parameter = %q, want target", missing.Parameter)
	}
}

func TestInterpolateCwd(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	got, err := Interpolate("ls ${cwd}", nil)
	if err != nil {
		t.Fatalf("Interpolate() error = %v", err)
	}
	if got != "ls "+wd {
		t.Errorf("Interpolate() = %q, want %q", got, "ls "+wd)
	}

	// An explicit value overrides the binding.
	got, err = Interpolate("ls ${cwd}", map[string]string{"cwd": "/tmp"})
	if err != nil {
		t.Fatalf("Interpolate() error = %v", err)
	}
	if got != "ls /tmp" {
		t.Errorf("Interpolate() = %q, want %q", got, "ls /tmp")
	}
}

func TestRender(t *testing.T) {
	f := &Function{
		Name: "scan",
		Body: Body{Text: "nikto -host ${host or localhost}"},
	}

	got, err := f.Render(nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "nikto -host localhost" {
		t.Errorf("Render() = %q", got)
	}
}

// SPDX-License-Identifier: MPL-2.0

package book

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

func TestParseShebang(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected ShebangInfo
	}{
		{
			name: "bash shebang",
			body: "#!/bin/bash\necho hello",
			expected: ShebangInfo{
				Interpreter: "/bin/bash",
				Args:        []string{},
				Found:       true,
			},
		},
		{
			name: "shebang with space after #!",
			body: "#! /bin/sh\necho hello",
			expected: ShebangInfo{
				Interpreter: "/bin/sh",
				Args:        []string{},
				Found:       true,
			},
		},
		{
			name: "shebang with interpreter args",
			body: "#!/usr/bin/perl -w\nprint 'hello';",
			expected: ShebangInfo{
				Interpreter: "/usr/bin/perl",
				Args:        []string{"-w"},
				Found:       true,
			},
		},
		{
			name: "env python3",
			body: "#!/usr/bin/env python3\nprint('hello')",
			expected: ShebangInfo{
				Interpreter: "python3",
				Args:        []string{},
				Found:       true,
			},
		},
		{
			name: "env -S with interpreter args",
			body: "#!/usr/bin/env -S python3 -u\nprint('hello')",
			expected: ShebangInfo{
				Interpreter: "python3",
				Args:        []string{"-u"},
				Found:       true,
			},
		},
		{
			name: "/bin/env ruby",
			body: "#!/bin/env ruby\nputs 'hello'",
			expected: ShebangInfo{
				Interpreter: "ruby",
				Args:        []string{},
				Found:       true,
			},
		},
		{
			name:     "no shebang",
			body:     "echo hello\nworld",
			expected: ShebangInfo{Found: false},
		},
		{
			name:     "empty body",
			body:     "",
			expected: ShebangInfo{Found: false},
		},
		{
			name:     "comment but not shebang",
			body:     "# a comment\necho hello",
			expected: ShebangInfo{Found: false},
		},
		{
			name:     "shebang-like but not at start",
			body:     "echo hello\n#!/bin/bash",
			expected: ShebangInfo{Found: false},
		},
		{
			name:     "empty shebang",
			body:     "#!\necho hello",
			expected: ShebangInfo{Found: false},
		},
		{
			name:     "env without interpreter",
			body:     "#!/usr/bin/env\necho hello",
			expected: ShebangInfo{Found: false},
		},
		{
			name:     "env -S without interpreter",
			body:     "#!/usr/bin/env -S\necho hello",
			expected: ShebangInfo{Found: false},
		},
		{
			name: "windows line endings",
			body: "#!/bin/bash\r\necho hello",
			expected: ShebangInfo{
				Interpreter: "/bin/bash",
				Args:        []string{},
				Found:       true,
			},
		},
		{
			name: "single line script",
			body: "#!/bin/bash",
			expected: ShebangInfo{
				Interpreter: "/bin/bash",
				Args:        []string{},
				Found:       true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseShebang(tt.body)

			if result.Found != tt.expected.Found {
				t.Errorf("ParseShebang() Found = %v, want %v", result.Found, tt.expected.Found)
				return
			}
			if !result.Found {
				return
			}
			if result.Interpreter != tt.expected.Interpreter {
				t.Errorf("ParseShebang() Interpreter = %q, want %q", result.Interpreter, tt.expected.Interpreter)
			}
			if len(result.Args) != 0 || len(tt.expected.Args) != 0 {
				if !reflect.DeepEqual(result.Args, tt.expected.Args) {
					t.Errorf("ParseShebang() Args = %v, want %v", result.Args, tt.expected.Args)
				}
			}
		})
	}
}

func TestResolveFlavor(t *testing.T) {
	tests := []struct {
		name    string
		fn      *Function
		want    ExecutionFlavor
		wantErr string // "", "unsupported", "ambiguous"
	}{
		{
			name: "explicit python tag",
			fn:   &Function{Name: "install", Body: Body{Tag: "python", Text: "print('hi')"}},
			want: InterpretedScript("python"),
		},
		{
			name: "explicit python3 tag keeps its name",
			fn:   &Function{Name: "gen", Body: Body{Tag: "python3", Text: "print('hi')"}},
			want: InterpretedScript("python3"),
		},
		{
			name: "explicit shell tags",
			fn:   &Function{Name: "clean", Body: Body{Tag: "bash", Text: "rm -rf target/"}},
			want: ShellScript(),
		},
		{
			name: "markdown shell alias",
			fn:   &Function{Name: "list", Body: Body{Tag: "shell", Text: "ls -la"}},
			want: ShellScript(),
		},
		{
			name: "plain command with no tag",
			fn:   &Function{Name: "clean", Body: Body{Text: "rm -rf target/\nls\n"}},
			want: ShellScript(),
		},
		{
			name: "shebang provides the declaration",
			fn:   &Function{Name: "report", Body: Body{Text: "#!/usr/bin/env python3\nprint('hi')"}},
			want: InterpretedScript("python3"),
		},
		{
			name: "shell shebang with path",
			fn:   &Function{Name: "boot", Body: Body{Text: "#!/bin/bash\nset -e\nmake"}},
			want: ShellScript(),
		},
		{
			name: "tag wins over shebang",
			fn:   &Function{Name: "mix", Body: Body{Tag: "ruby", Text: "#!/usr/bin/env python3\nputs :x"}},
			want: InterpretedScript("ruby"),
		},
		{
			name: "windows interpreter suffix",
			fn:   &Function{Name: "win", Body: Body{Tag: "python.exe", Text: "print('hi')"}},
			want: InterpretedScript("python"),
		},
		{
			name:    "unknown tag is unsupported",
			fn:      &Function{Name: "weird", Body: Body{Tag: "cobol", Text: "DISPLAY 'HI'."}},
			wantErr: "unsupported",
		},
		{
			name:    "unknown shebang interpreter is unsupported",
			fn:      &Function{Name: "weird", Body: Body{Text: "#!/usr/bin/awk -f\n{print}"}},
			wantErr: "unsupported",
		},
		{
			name:    "empty body is ambiguous",
			fn:      &Function{Name: "empty", Body: Body{Text: ""}},
			wantErr: "ambiguous",
		},
		{
			name:    "whitespace body is ambiguous",
			fn:      &Function{Name: "blank", Body: Body{Text: "   \n\t\n"}},
			wantErr: "ambiguous",
		},
		{
			name:    "non-shell body is ambiguous",
			fn:      &Function{Name: "prose", Body: Body{Text: "def main():\n    return 1\n"}},
			wantErr: "ambiguous",
		},
		{
			name: "placeholders are valid shell syntax",
			fn:   &Function{Name: "scan", Body: Body{Text: "nmap -p ${ports or 80} ${target}\n"}},
			want: ShellScript(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFlavor(tt.fn)

			switch tt.wantErr {
			case "":
				if err != nil {
					t.Fatalf("ResolveFlavor() error = %v, want flavor %v", err, tt.want)
				}
				if got != tt.want {
					t.Errorf("ResolveFlavor() = %v, want %v", got, tt.want)
				}
			case "unsupported":
				var unsupported *UnsupportedFlavorError
				if !errors.As(err, &unsupported) {
					t.Fatalf("ResolveFlavor() error = %v, want UnsupportedFlavorError", err)
				}
			case "ambiguous":
				var ambiguous *AmbiguousFlavorError
				if !errors.As(err, &ambiguous) {
					t.Fatalf("ResolveFlavor() error = %v, want AmbiguousFlavorError", err)
				}
				if ambiguous.Function != tt.fn.Name {
					t.Errorf("AmbiguousFlavorError.Function = %q, want %q", ambiguous.Function, tt.fn.Name)
				}
			}
		})
	}
}

// Resolution is a pure function: the same body must yield the same
// flavor (or the same error) on every call.
func TestResolveFlavorDeterminism(t *testing.T) {
	fns := []*Function{
		{Name: "a", Body: Body{Tag: "python", Text: "print('hi')"}},
		{Name: "b", Body: Body{Text: "ls -la"}},
		{Name: "c", Body: Body{Text: ""}},
		{Name: "d", Body: Body{Tag: "cobol"}},
	}

	for _, fn := range fns {
		first, firstErr := ResolveFlavor(fn)
		for i := 0; i < 3; i++ {
			got, err := ResolveFlavor(fn)
			if got != first {
				t.Errorf("ResolveFlavor(%q) flavor changed between calls: %v then %v", fn.Name, first, got)
			}
			if (err == nil) != (firstErr == nil) {
				t.Errorf("ResolveFlavor(%q) error presence changed between calls", fn.Name)
			}
			if err != nil && firstErr != nil && err.Error() != firstErr.Error() {
				t.Errorf("ResolveFlavor(%q) error changed: %v then %v", fn.Name, firstErr, err)
			}
		}
	}
}

func TestExecutionFlavorString(t *testing.T) {
	if got := ShellScript().String(); got != "shell" {
		t.Errorf("ShellScript().String() = %q, want %q", got, "shell")
	}
	if got := InterpretedScript("python").String(); got != "python" {
		t.Errorf("InterpretedScript(python).String() = %q, want %q", got, "python")
	}
}

func TestIsShellInterpreter(t *testing.T) {
	tests := []struct {
		interpreter string
		want        bool
	}{
		{"bash", true},
		{"/bin/sh", true},
		{"zsh", true},
		{"bash.exe", true},
		{"shell", true},
		{"python", false},
		{"/usr/bin/python3", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsShellInterpreter(tt.interpreter); got != tt.want {
			t.Errorf("IsShellInterpreter(%q) = %v, want %v", tt.interpreter, got, tt.want)
		}
	}
}

func TestExtensionForInterpreter(t *testing.T) {
	tests := []struct {
		interpreter string
		want        string
	}{
		{"python", ".py"},
		{"python3", ".py"},
		{"/usr/bin/ruby", ".rb"},
		{"node.exe", ".js"},
		{"Rscript", ".R"},
		{"cobol", ""},
	}

	for _, tt := range tests {
		if got := ExtensionForInterpreter(tt.interpreter); got != tt.want {
			t.Errorf("ExtensionForInterpreter(%q) = %q, want %q", tt.interpreter, got, tt.want)
		}
	}
}

func TestKnownInterpretersSorted(t *testing.T) {
	names := KnownInterpreters()
	if len(names) == 0 {
		t.Fatal("KnownInterpreters() returned no names")
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("KnownInterpreters() not sorted: %v", names)
	}
}

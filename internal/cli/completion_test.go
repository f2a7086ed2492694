package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestCompletion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "bash script",
			args: []string{"completion", "bash"},
			want: []string{"graphshake"},
		},
		{
			name: "graph file argument",
			args: []string{"__complete", "shake", ""},
			want: []string{"json\n", ":8\n"},
		},
		{
			name: "graph format flag",
			args: []string{"__complete", "graph", "in.json", "--format", ""},
			want: []string{"dot\tGraphviz source", "svg\t", ":4\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(io.Discard)
			root.SetArgs(tt.args)
			if err := root.Execute(); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

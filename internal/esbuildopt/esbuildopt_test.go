package esbuildopt

import (
	"testing"

	"github.com/evanw/esbuild/pkg/api"
)

func TestTarget(t *testing.T) {
	tests := []struct {
		name    string
		want    api.Target
		wantErr bool
	}{
		{"", api.ES2015, false},
		{"es2015", api.ES2015, false},
		{"ES2020", api.ES2020, false},
		{"esnext", api.ESNext, false},
		{"es3", api.DefaultTarget, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Target(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Target(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Target(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoader(t *testing.T) {
	if l, err := Loader(""); err != nil || l != api.LoaderJSX {
		t.Errorf("Loader(\"\") = %v, %v", l, err)
	}
	if l, err := Loader("ts"); err != nil || l != api.LoaderTS {
		t.Errorf("Loader(ts) = %v, %v", l, err)
	}
	if _, err := Loader("coffee"); err == nil {
		t.Error("Loader(coffee) should fail")
	}
}

func TestJSX(t *testing.T) {
	if j, err := JSX(""); err != nil || j != api.JSXTransform {
		t.Errorf("JSX(\"\") = %v, %v", j, err)
	}
	if j, err := JSX("automatic"); err != nil || j != api.JSXAutomatic {
		t.Errorf("JSX(automatic) = %v, %v", j, err)
	}
	if _, err := JSX("vue"); err == nil {
		t.Error("JSX(vue) should fail")
	}
}

func TestMessages(t *testing.T) {
	msgs := []api.Message{
		{Text: "Expected \";\"", Location: &api.Location{File: "main", Line: 3, Column: 7}},
		{Text: "boom", PluginName: "graphshake"},
	}
	want := `main:3:7: Expected ";"; [plugin graphshake] boom`
	if got := Messages(msgs); got != want {
		t.Errorf("Messages() = %q, want %q", got, want)
	}
}

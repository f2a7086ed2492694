package engine

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// metafile mirrors the subset of esbuild's metafile JSON that graphshake reads.
type metafile struct {
	Inputs  map[string]metafileInput  `json:"inputs"`
	Outputs map[string]metafileOutput `json:"outputs"`
}

type metafileInput struct {
	Bytes   int              `json:"bytes"`
	Imports []metafileImport `json:"imports"`
}

type metafileImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
	Original string `json:"original,omitempty"`
}

type metafileOutput struct {
	Bytes      int              `json:"bytes"`
	Imports    []metafileImport `json:"imports"`
	Exports    []string         `json:"exports"`
	EntryPoint string           `json:"entryPoint,omitempty"`
}

func parseMetafile(data string) (*metafile, error) {
	var m metafile
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// exports returns the export names of the JavaScript output.
func (m *metafile) exports() []string {
	for name, o := range m.Outputs {
		if strings.EqualFold(filepath.Ext(name), ".js") {
			return o.Exports
		}
	}
	return nil
}

package io

import "github.com/matzehuels/graphshake/pkg/graph"

// metaFormat is the meta key holding a non-ES format label.
const metaFormat = "format"

type graphFile struct {
	Mains  []string     `json:"mains"`
	Loader graph.Loader `json:"loader"`
	Nodes  []node       `json:"nodes"`
}

type node struct {
	ID           string                `json:"id"`
	Format       string                `json:"format,omitempty"`
	Source       *string               `json:"source,omitempty"`
	File         string                `json:"file,omitempty"`
	Dependencies []string              `json:"dependencies,omitempty"`
	Specifiers   []string              `json:"specifiers,omitempty"`
	Dependants   []string              `json:"dependants,omitempty"`
	Manifest     *graph.ImportManifest `json:"manifest,omitempty"`
	EmittedCode  string                `json:"emitted_code,omitempty"`
	EmittedMap   string                `json:"emitted_map,omitempty"`
	Meta         graph.Metadata        `json:"meta,omitempty"`
}

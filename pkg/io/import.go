package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/graphshake/pkg/errors"
	"github.com/matzehuels/graphshake/pkg/graph"
)

// ReadJSON decodes a JSON graph from r. Node "file" paths are resolved
// against the working directory.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - A node id is invalid or duplicated
//   - A node's dependencies and specifiers differ in length
//   - A "file" path is invalid or cannot be read
//
// Entry points are not checked here; see [graph.Graph.Validate]. ReadJSON
// does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	return decode(r, ".")
}

// ImportJSON reads the graph file at path. Node "file" paths are resolved
// against the directory containing path.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return decode(f, filepath.Dir(path))
}

func decode(r io.Reader, baseDir string) (*graph.Graph, error) {
	var data graphFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}

	g := graph.New()
	g.Mains = data.Mains
	g.Loader = data.Loader
	for _, n := range data.Nodes {
		nd, err := toNode(n, baseDir)
		if err != nil {
			return nil, err
		}
		if err := g.AddNode(nd); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %s", n.ID)
		}
	}
	return g, nil
}

func toNode(n node, baseDir string) (*graph.Node, error) {
	if err := errors.ValidateModuleID(n.ID); err != nil {
		return nil, err
	}
	nd := &graph.Node{
		ID:          n.ID,
		Format:      graph.ParseFormat(n.Format),
		Dependants:  n.Dependants,
		Manifest:    n.Manifest,
		EmittedCode: n.EmittedCode,
		EmittedMap:  n.EmittedMap,
		Meta:        n.Meta,
	}
	if err := nd.SetDependencies(n.Dependencies, n.Specifiers); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %s", n.ID)
	}
	for _, dep := range n.Dependencies {
		if err := errors.ValidateModuleID(dep); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %s dependency", n.ID)
		}
	}

	if nd.Format == graph.FormatOther && n.Format != "" {
		if nd.Meta == nil {
			nd.Meta = graph.Metadata{}
		}
		nd.Meta[metaFormat] = n.Format
	}

	switch {
	case n.Source != nil:
		nd.Source = *n.Source
	case n.File != "":
		if err := errors.ValidatePath(n.File); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %s", n.ID)
		}
		data, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(n.File)))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "node %s source", n.ID)
		}
		nd.Source = string(data)
	}
	return nd, nil
}

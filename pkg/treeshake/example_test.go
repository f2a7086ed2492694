package treeshake_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/graphshake/pkg/graph"
	"github.com/matzehuels/graphshake/pkg/shim"
	"github.com/matzehuels/graphshake/pkg/treeshake"
)

func ExampleShaker_Run() {
	g := graph.New()
	_ = g.AddNode(&graph.Node{
		ID:                 "app#main",
		Format:             graph.FormatESModule,
		Source:             "import { a, b } from \"legacy\";\nconsole.log(a);\n",
		Dependencies:       []string{"legacy#index"},
		OriginalSpecifiers: []string{"legacy"},
	})
	_ = g.AddNode(&graph.Node{
		ID:     "legacy#index",
		Format: graph.FormatOther,
		Source: "exports.a = 1; exports.b = 2;",
	})
	g.Mains = []string{"app#main"}

	result, err := treeshake.NewShaker(nil, nil, nil).Run(context.Background(), g, treeshake.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}

	legacy, _ := g.Node("legacy#index")
	fmt.Println(result.Merged)
	fmt.Println(legacy.Dependants)
	fmt.Print(shim.Synthesize(g, graph.DependencyResolver{}, "legacy#index").Code)
	// Output:
	// [app#main]
	// [app#main]
	// export let a = {};
	// export let b = {};
}

package mermaid_test

import (
	"fmt"

	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/render/mermaid"
)

func ExampleRender() {
	app := graph.NewNode("src/app.ts")
	button := graph.NewNode("src/components/button.tsx")
	react := graph.NewNode("node_modules/react/index.js")
	g := graph.Graph{
		Nodes: []graph.Node{app, button, react},
		Relations: []graph.Relation{
			{From: app, To: button},
			{From: button, To: react},
		},
	}

	mermaid.Render(func(line string) { fmt.Println(line) }, g, mermaid.Options{Direction: mermaid.DirectionLR})
	// Output:
	// flowchart LR
	//   subgraph src["src"]
	//     src/app.ts["app.ts"]
	//     subgraph src/components["components"]
	//       src/components/button.tsx["button.tsx"]
	//     end
	//   end
	//   subgraph node//modules["node_modules"]
	//     node//modules/react/index.js["index.js"]
	//   end
	//   src/app.ts-->src/components/button.tsx
	//   src/components/button.tsx-->node//modules/react/index.js
}

func ExampleID() {
	fmt.Println(mermaid.ID("src/(group)/page.tsx"))
	fmt.Println(mermaid.ID("src/styles.css"))
	// Output:
	// src///group///page.tsx
	// src/style_s.css
}

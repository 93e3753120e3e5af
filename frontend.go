package main

// ParseSource parses Python source text and runs the advisory detection walk
// over the resulting tree. Constructs the generator has no rendering for
// (async functions, yield expressions) are reported early so the caller sees
// them even before generation reaches the offending node. The walk never
// alters the tree and never fails; the only fatal outcome is a ParseError.
func ParseSource(source string, diags *Diagnostics) (*Node, error) {
	root, err := ParseProgram(source)
	if err != nil {
		return nil, err
	}
	detectUnsupported(root, diags)
	return root, nil
}

func detectUnsupported(root *Node, diags *Diagnostics) {
	Walk(root, func(n *Node) bool {
		switch n.Kind {
		case NodeFunctionDef:
			if n.IsAsync {
				diags.Add(n.Line, "async function not supported")
			}
		case NodeYield:
			diags.Add(n.Line, "yield not supported")
		}
		return true
	})
}

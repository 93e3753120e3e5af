package main

import (
	"strconv"
	"strings"
)

// exprString renders an expression node as Swift source text.
func (g *Generator) exprString(node *Node) string {
	if node == nil {
		return "nil"
	}
	switch node.Kind {
	case NodeName:
		return node.Name
	case NodeInt:
		return strconv.FormatInt(node.IntVal, 10)
	case NodeFloat:
		if node.Str != "" {
			return node.Str
		}
		return strconv.FormatFloat(node.FloatVal, 'g', -1, 64)
	case NodeString:
		return `"` + escapeString(node.Str) + `"`
	case NodeBool:
		if node.BoolVal {
			return "true"
		}
		return "false"
	case NodeNone:
		return "nil"
	case NodeFString:
		return g.fstringString(node)
	case NodeAttribute:
		return g.exprString(node.Value) + "." + node.Name
	case NodeBinary:
		return g.binaryString(node)
	case NodeUnary:
		return g.unaryString(node)
	case NodeBoolOp:
		return g.boolOpString(node)
	case NodeCompare:
		return g.compareString(node)
	case NodeCall:
		return g.callString(node)
	case NodeList:
		return "[" + g.joinExprs(node.Args) + "]"
	case NodeDict:
		return g.dictString(node)
	case NodeSet:
		return "Set([" + g.joinExprs(node.Args) + "])"
	case NodeTuple:
		return "(" + g.joinExprs(node.Args) + ")"
	case NodeListComp:
		return g.compString(node)
	case NodeIfExp:
		return "(" + g.exprString(node.Test) + " ? " + g.exprString(node.Left) + " : " + g.exprString(node.Right) + ")"
	case NodeLambda:
		return g.lambdaString(node)
	case NodeSubscript:
		return g.subscriptString(node)
	}
	g.warn(node, "unsupported expression: %s", node.Kind)
	return "/* unsupported expression */"
}

func (g *Generator) joinExprs(nodes []*Node) string {
	var parts []string
	for _, n := range nodes {
		parts = append(parts, g.exprString(n))
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) fstringString(node *Node) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, part := range node.Args {
		if part.Kind == NodeString {
			b.WriteString(escapeString(part.Str))
		} else {
			b.WriteString(`\(` + g.exprString(part) + `)`)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (g *Generator) binaryString(node *Node) string {
	left := g.exprString(node.Left)
	right := g.exprString(node.Right)
	switch node.Op {
	case "//":
		return "Int(Double(" + left + ") / Double(" + right + "))"
	case "**":
		return "pow(" + left + ", " + right + ")"
	}
	return "(" + left + " " + node.Op + " " + right + ")"
}

func (g *Generator) unaryString(node *Node) string {
	operand := g.exprString(node.Value)
	switch node.Op {
	case "not":
		return "!(" + operand + ")"
	case "-":
		return "-(" + operand + ")"
	}
	return operand
}

func (g *Generator) boolOpString(node *Node) string {
	op := " && "
	if node.Op == "or" {
		op = " || "
	}
	var parts []string
	for _, v := range node.Args {
		parts = append(parts, g.exprString(v))
	}
	return "(" + strings.Join(parts, op) + ")"
}

// compareString renders comparison chains as &&-joined pairs. Membership
// tests become .contains, identity tests become Swift reference equality.
func (g *Generator) compareString(node *Node) string {
	var parts []string
	left := g.exprString(node.Left)
	for i, op := range node.Ops {
		right := g.exprString(node.Args[i])
		switch op {
		case "in":
			parts = append(parts, right+".contains("+left+")")
		case "not in":
			parts = append(parts, "!("+right+".contains("+left+"))")
		case "is":
			parts = append(parts, left+" === "+right)
		case "is not":
			parts = append(parts, left+" !== "+right)
		default:
			parts = append(parts, left+" "+op+" "+right)
		}
		left = right
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts, " && ")
}

func (g *Generator) callString(node *Node) string {
	switch node.Value.Kind {
	case NodeName:
		return g.builtinCall(node).Text
	case NodeAttribute:
		return g.methodCall(node).Text
	}
	return g.exprString(node.Value) + "(" + g.joinExprs(node.Args) + ")"
}

func (g *Generator) dictString(node *Node) string {
	if len(node.Keys) == 0 {
		return "[:]"
	}
	var pairs []string
	for i, k := range node.Keys {
		pairs = append(pairs, g.exprString(k)+": "+g.exprString(node.Values[i]))
	}
	return "[" + strings.Join(pairs, ", ") + "]"
}

func (g *Generator) lambdaString(node *Node) string {
	body := g.exprString(node.Value)
	if len(node.Args) == 0 {
		return "{ " + body + " }"
	}
	var params []string
	for _, p := range node.Args {
		params = append(params, p.Name+": Any")
	}
	return "{ " + strings.Join(params, ", ") + " in return " + body + " }"
}

// ===== COMPREHENSIONS =====

// compString rewrites a single-generator list comprehension into a
// filter-then-map chain. The loop variable is substituted with the implicit
// closure parameter on the parsed tree, never textually.
func (g *Generator) compString(node *Node) string {
	if node.Generators > 1 {
		g.warn(node, "list comprehension with multiple generators not supported")
		return "[]"
	}
	if node.Target.Kind != NodeName {
		g.warn(node, "list comprehension with tuple target not supported")
		return "[]"
	}
	loopVar := node.Target.Name
	iterStr := g.exprString(node.Iter)

	element := substituteName(node.Value, loopVar, "$0")
	if node.Test != nil {
		cond := substituteName(node.Test, loopVar, "$0")
		return iterStr + ".filter{ " + g.exprString(cond) + " }.map{ " + g.exprString(element) + " }"
	}
	if node.Value.Kind == NodeName && node.Value.Name == loopVar {
		return iterStr // identity passthrough
	}
	return iterStr + ".map{ " + g.exprString(element) + " }"
}

// substituteName returns a copy of the tree with every Name node that
// resolves to `from` replaced by a Name node called `to`. Lambdas whose
// parameters shadow the name are left alone.
func substituteName(node *Node, from, to string) *Node {
	if node == nil {
		return nil
	}
	if node.Kind == NodeName && node.Name == from {
		clone := *node
		clone.Name = to
		return &clone
	}
	if node.Kind == NodeLambda {
		for _, p := range node.Args {
			if p.Name == from {
				return node
			}
		}
	}
	clone := *node
	clone.Left = substituteName(node.Left, from, to)
	clone.Right = substituteName(node.Right, from, to)
	clone.Target = substituteName(node.Target, from, to)
	clone.Value = substituteName(node.Value, from, to)
	clone.Iter = substituteName(node.Iter, from, to)
	clone.Test = substituteName(node.Test, from, to)
	clone.Index = substituteName(node.Index, from, to)
	clone.Lower = substituteName(node.Lower, from, to)
	clone.Upper = substituteName(node.Upper, from, to)
	clone.Step = substituteName(node.Step, from, to)
	clone.Body = substituteNameList(node.Body, from, to)
	clone.Else = substituteNameList(node.Else, from, to)
	clone.Handlers = substituteNameList(node.Handlers, from, to)
	clone.Args = substituteNameList(node.Args, from, to)
	clone.Keys = substituteNameList(node.Keys, from, to)
	clone.Values = substituteNameList(node.Values, from, to)
	return &clone
}

func substituteNameList(nodes []*Node, from, to string) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = substituteName(n, from, to)
	}
	return out
}

// ===== SUBSCRIPTS AND SLICES =====

func (g *Generator) subscriptString(node *Node) string {
	base := g.exprString(node.Value)
	if node.Index != nil && node.Index.Kind == NodeSlice {
		return g.sliceString(base, node.Index)
	}
	return base + "[" + g.exprString(node.Index) + "]"
}

func (g *Generator) sliceString(base string, slice *Node) string {
	if slice.Step != nil {
		if isNegativeOne(slice.Step) {
			if slice.Lower == nil && slice.Upper == nil {
				return "Array(" + base + ".reversed())"
			}
			g.warn(slice, "slice with step -1 and bounds not fully supported")
			return "Array(" + base + ".reversed())"
		}
		g.warn(slice, "slice with step other than -1 not supported, use a manual stride loop")
		return "/* slice with unsupported step */"
	}

	switch {
	case slice.Lower == nil && slice.Upper == nil:
		return base
	case slice.Lower == nil:
		return base + "[..<" + g.exprString(slice.Upper) + "]"
	case slice.Upper == nil:
		return base + "[" + g.exprString(slice.Lower) + "...]"
	}
	return base + "[" + g.exprString(slice.Lower) + "..<" + g.exprString(slice.Upper) + "]"
}

func isNegativeOne(node *Node) bool {
	if node.Kind == NodeUnary && node.Op == "-" && node.Value.Kind == NodeInt && node.Value.IntVal == 1 {
		return true
	}
	return node.Kind == NodeInt && node.IntVal == -1
}

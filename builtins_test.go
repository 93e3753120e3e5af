package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func callNode(t *testing.T, src string) *Node {
	t.Helper()
	node := exprNode(t, src)
	be.Equal(t, node.Kind, NodeCall)
	return node
}

func TestBuiltinTable(t *testing.T) {
	var diags Diagnostics
	g := NewGenerator(NewInferencer(), &diags)

	cases := []struct {
		src  string
		want string
	}{
		{`print("hi", x)`, `print("hi", x)`},
		{"len(xs)", "xs.count"},
		{"sum(xs)", "xs.reduce(0, +)"},
		{"min(xs)", "xs.min() ?? 0"},
		{"min(a, b)", "min(a, b)"},
		{"max(xs)", "xs.max() ?? 0"},
		{"abs(x)", "abs(x)"},
		{"sorted(xs)", "xs.sorted()"},
		{"reversed(xs)", "Array(xs.reversed())"},
		{"range(5)", "0..<5"},
		{"range(1, 5)", "1..<5"},
		{"range(0, 10, 2)", "stride(from: 0, to: 10, by: 2)"},
		{"str(n)", "String(n)"},
		{"int(s)", "Int(s) ?? 0"},
		{"float(s)", "Double(s) ?? 0.0"},
		{"list()", "[]"},
		{"list(xs)", "Array(xs)"},
		{"dict()", "[:]"},
		{"enumerate(xs)", "xs.enumerated()"},
		{"zip(a, b)", "zip(a, b)"},
		{"map(f, xs)", "xs.map(f)"},
		{"filter(f, xs)", "xs.filter(f)"},
		{"any(xs)", "xs.contains(where: { $0 })"},
		{"all(xs)", "xs.allSatisfy({ $0 })"},
	}
	for _, c := range cases {
		tr := g.builtinCall(callNode(t, c.src))
		be.Equal(t, tr.Text, c.want)
		be.Equal(t, tr.Kind, CallMatched)
	}
}

func TestBuiltinUnknownPassesThrough(t *testing.T) {
	var diags Diagnostics
	g := NewGenerator(NewInferencer(), &diags)

	tr := g.builtinCall(callNode(t, "frobnicate(1, x)"))
	be.Equal(t, tr.Text, "frobnicate(1, x)")
	be.Equal(t, tr.Kind, CallPassthrough)
	// passthrough is silent
	be.True(t, diags.Empty())
}

func TestMethodTable(t *testing.T) {
	var diags Diagnostics
	g := NewGenerator(NewInferencer(), &diags)

	cases := []struct {
		src  string
		want string
	}{
		{"s.lower()", "s.lowercased()"},
		{"s.upper()", "s.uppercased()"},
		{"s.strip()", "s.trimmingCharacters(in: .whitespacesAndNewlines)"},
		{`s.replace("a", "b")`, `s.replacingOccurrences(of: "a", with: "b")`},
		{"s.split()", `s.split(separator: " ").map(String.init)`},
		{`s.split(",")`, `s.split(separator: ",").map(String.init)`},
		{`sep.join(parts)`, "parts.joined(separator: sep)"},
		{`s.startswith("a")`, `s.hasPrefix("a")`},
		{`s.endswith("a")`, `s.hasSuffix("a")`},
		{"xs.append(v)", "xs.append(v)"},
		{"xs.extend(ys)", "xs.append(contentsOf: ys)"},
		{"xs.insert(0, v)", "xs.insert(v, at: 0)"},
		{"xs.remove(v)", "xs.removeAll(where: { $0 == v })"},
		{"xs.pop()", "xs.removeLast()"},
		{"xs.pop(0)", "xs.remove(at: 0)"},
		{`d.get("k")`, `(d["k"] ?? nil)`},
		{`d.get("k", 0)`, `(d["k"] ?? 0)`},
		{"d.keys()", "Array(d.keys)"},
		{"d.values()", "Array(d.values)"},
		{"d.items()", "Array(d)"},
	}
	for _, c := range cases {
		tr := g.methodCall(callNode(t, c.src))
		be.Equal(t, tr.Text, c.want)
		be.Equal(t, tr.Kind, CallMatched)
	}
}

func TestMethodUnknownPassesThrough(t *testing.T) {
	var diags Diagnostics
	g := NewGenerator(NewInferencer(), &diags)

	tr := g.methodCall(callNode(t, "obj.frob(1, 2)"))
	be.Equal(t, tr.Text, "obj.frob(1, 2)")
	be.Equal(t, tr.Kind, CallPassthrough)
	be.True(t, diags.Empty())
}

func TestSumSeedDependsOnElementType(t *testing.T) {
	root, err := ParseProgram("vals = [1.5, 2.5]\nt = sum(vals)\n")
	be.Err(t, err, nil)
	inf := NewInferencer()
	inf.Infer(root)

	var diags Diagnostics
	g := NewGenerator(inf, &diags)
	call := root.Body[1].Value
	be.Equal(t, g.builtinCall(call).Text, "vals.reduce(0.0, +)")
}

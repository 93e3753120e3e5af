package main

import "strings"

// CallTranslationKind distinguishes table-matched translations, which are
// known-good Swift, from passthrough transliterations, which keep the source
// call shape as a starting point for manual repair.
type CallTranslationKind int

const (
	CallMatched CallTranslationKind = iota
	CallPassthrough
)

// CallTranslation is the result of translating a builtin or method call.
type CallTranslation struct {
	Text string
	Kind CallTranslationKind
}

func matched(text string) CallTranslation {
	return CallTranslation{Text: text, Kind: CallMatched}
}

// builtinCall translates a call to a plain name through the builtin table.
// Unknown names pass through unchanged with no diagnostic.
func (g *Generator) builtinCall(node *Node) CallTranslation {
	name := node.Value.Name
	var args []string
	for _, a := range node.Args {
		args = append(args, g.exprString(a))
	}
	argc := len(args)

	switch name {
	case "print":
		return matched("print(" + strings.Join(args, ", ") + ")")
	case "len":
		if argc == 1 {
			return matched(args[0] + ".count")
		}
	case "sum":
		if argc == 1 {
			seed := "0"
			if t := g.inf.ExprType(node.Args[0]); t.Kind == TypeArray && t.Elem.Kind == TypeDouble {
				seed = "0.0"
			}
			return matched(args[0] + ".reduce(" + seed + ", +)")
		}
	case "min":
		if argc == 1 {
			return matched(args[0] + ".min() ?? 0")
		}
		if argc > 1 {
			return matched("min(" + strings.Join(args, ", ") + ")")
		}
	case "max":
		if argc == 1 {
			return matched(args[0] + ".max() ?? 0")
		}
		if argc > 1 {
			return matched("max(" + strings.Join(args, ", ") + ")")
		}
	case "abs":
		if argc == 1 {
			return matched("abs(" + args[0] + ")")
		}
	case "sorted":
		if argc == 1 {
			return matched(args[0] + ".sorted()")
		}
	case "reversed":
		if argc == 1 {
			return matched("Array(" + args[0] + ".reversed())")
		}
	case "range":
		switch argc {
		case 1:
			return matched("0..<" + args[0])
		case 2:
			return matched(args[0] + "..<" + args[1])
		case 3:
			return matched("stride(from: " + args[0] + ", to: " + args[1] + ", by: " + args[2] + ")")
		}
	case "str":
		if argc == 1 {
			return matched("String(" + args[0] + ")")
		}
	case "int":
		if argc == 1 {
			return matched("Int(" + args[0] + ") ?? 0")
		}
	case "float":
		if argc == 1 {
			return matched("Double(" + args[0] + ") ?? 0.0")
		}
	case "list":
		if argc == 0 {
			return matched("[]")
		}
		return matched("Array(" + args[0] + ")")
	case "dict":
		return matched("[:]")
	case "enumerate":
		if argc == 1 {
			return matched(args[0] + ".enumerated()")
		}
	case "zip":
		if argc >= 2 {
			return matched("zip(" + strings.Join(args, ", ") + ")")
		}
	case "map":
		if argc == 2 {
			return matched(args[1] + ".map(" + args[0] + ")")
		}
	case "filter":
		if argc == 2 {
			return matched(args[1] + ".filter(" + args[0] + ")")
		}
	case "any":
		if argc == 1 {
			return matched(args[0] + ".contains(where: { $0 })")
		}
	case "all":
		if argc == 1 {
			return matched(args[0] + ".allSatisfy({ $0 })")
		}
	}

	return CallTranslation{
		Text: name + "(" + strings.Join(args, ", ") + ")",
		Kind: CallPassthrough,
	}
}

// methodCall translates attribute calls through the method table: string
// methods, list mutation and dictionary accessors. Unknown methods pass
// through with the same name and argument order.
func (g *Generator) methodCall(node *Node) CallTranslation {
	obj := g.exprString(node.Value.Value)
	method := node.Value.Name
	var args []string
	for _, a := range node.Args {
		args = append(args, g.exprString(a))
	}
	argc := len(args)

	switch method {
	// string methods
	case "lower":
		return matched(obj + ".lowercased()")
	case "upper":
		return matched(obj + ".uppercased()")
	case "strip":
		return matched(obj + ".trimmingCharacters(in: .whitespacesAndNewlines)")
	case "replace":
		if argc == 2 {
			return matched(obj + ".replacingOccurrences(of: " + args[0] + ", with: " + args[1] + ")")
		}
	case "split":
		if argc == 0 {
			return matched(obj + `.split(separator: " ").map(String.init)`)
		}
		return matched(obj + ".split(separator: " + args[0] + ").map(String.init)")
	case "join":
		if argc == 1 {
			return matched(args[0] + ".joined(separator: " + obj + ")")
		}
	case "startswith":
		if argc == 1 {
			return matched(obj + ".hasPrefix(" + args[0] + ")")
		}
	case "endswith":
		if argc == 1 {
			return matched(obj + ".hasSuffix(" + args[0] + ")")
		}

	// list methods
	case "append":
		if argc == 1 {
			return matched(obj + ".append(" + args[0] + ")")
		}
	case "extend":
		if argc == 1 {
			return matched(obj + ".append(contentsOf: " + args[0] + ")")
		}
	case "insert":
		if argc == 2 {
			return matched(obj + ".insert(" + args[1] + ", at: " + args[0] + ")")
		}
	case "remove":
		if argc == 1 {
			return matched(obj + ".removeAll(where: { $0 == " + args[0] + " })")
		}
	case "pop":
		if argc == 0 {
			return matched(obj + ".removeLast()")
		}
		return matched(obj + ".remove(at: " + args[0] + ")")

	// dict methods
	case "get":
		if argc >= 1 {
			def := "nil"
			if argc > 1 {
				def = args[1]
			}
			return matched("(" + obj + "[" + args[0] + "] ?? " + def + ")")
		}
	case "keys":
		return matched("Array(" + obj + ".keys)")
	case "values":
		return matched("Array(" + obj + ".values)")
	case "items":
		return matched("Array(" + obj + ")")
	}

	return CallTranslation{
		Text: obj + "." + method + "(" + strings.Join(args, ", ") + ")",
		Kind: CallPassthrough,
	}
}

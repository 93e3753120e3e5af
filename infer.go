package main

// FuncSignature holds the parameter and return types of one function.
// ParamNames preserves declaration order; "self" and "cls" are excluded.
type FuncSignature struct {
	ParamNames []string
	Params     map[string]*Type
	Return     *Type // nil until pass 2 when the return type is unannotated
}

// InferenceEngine is what the generator consumes. Keeping the two-pass
// inferencer behind this interface lets a fixpoint solver replace it without
// touching the generator.
type InferenceEngine interface {
	Infer(root *Node)
	SignatureOf(name string) (*FuncSignature, bool)
	VarTypeOf(name string) (*Type, bool)
	ExprType(node *Node) *Type
}

// Inferencer is a two-pass, whole-tree, non-flow-sensitive type analysis.
// Pass 1 collects function signatures from annotations; pass 2 records
// first-assignment variable types and fills in unannotated return and
// parameter types. There is no fixpoint iteration: a function's return type
// is resolved against whatever part of the signature table exists when it is
// visited, so forward references can under-infer.
type Inferencer struct {
	FuncSigs map[string]*FuncSignature
	VarTypes map[string]*Type
}

func NewInferencer() *Inferencer {
	return &Inferencer{
		FuncSigs: map[string]*FuncSignature{},
		VarTypes: map[string]*Type{},
	}
}

func (inf *Inferencer) SignatureOf(name string) (*FuncSignature, bool) {
	sig, ok := inf.FuncSigs[name]
	return sig, ok
}

func (inf *Inferencer) VarTypeOf(name string) (*Type, bool) {
	t, ok := inf.VarTypes[name]
	return t, ok
}

// ExprType resolves an expression to a lattice member; unknown becomes Any.
func (inf *Inferencer) ExprType(node *Node) *Type {
	if t := inf.exprType(node, nil); t != nil {
		return t
	}
	return AnyType
}

func (inf *Inferencer) Infer(root *Node) {
	inf.collectSignatures(root)
	inf.propagateTypes(root)
}

// ===== PASS 1: SIGNATURE COLLECTION =====

func (inf *Inferencer) collectSignatures(root *Node) {
	Walk(root, func(n *Node) bool {
		if n.Kind != NodeFunctionDef {
			return true
		}
		sig := &FuncSignature{Params: map[string]*Type{}}
		for _, param := range n.Args {
			if param.Name == "self" || param.Name == "cls" {
				continue
			}
			sig.ParamNames = append(sig.ParamNames, param.Name)
			if param.Value != nil {
				sig.Params[param.Name] = annotationType(param.Value)
			} else {
				sig.Params[param.Name] = AnyType
			}
		}
		if n.Returns != nil {
			sig.Return = annotationType(n.Returns)
		}
		// later definitions of the same name overwrite earlier signatures
		inf.FuncSigs[n.Name] = sig
		return true
	})
}

// annotationType maps a Python annotation expression onto the lattice.
// Anything outside the fixed table becomes Any.
func annotationType(node *Node) *Type {
	switch node.Kind {
	case NodeName:
		switch node.Name {
		case "int":
			return IntType
		case "float":
			return DoubleType
		case "str":
			return StringType
		case "bool":
			return BoolType
		case "list":
			return ArrayOf(AnyType)
		case "dict":
			return MapOf(StringType, AnyType)
		}
	case NodeSubscript:
		if node.Value.Kind != NodeName {
			break
		}
		switch node.Value.Name {
		case "List", "list":
			return ArrayOf(annotationType(node.Index))
		case "Dict", "dict":
			if node.Index.Kind == NodeTuple && len(node.Index.Args) == 2 {
				return MapOf(annotationType(node.Index.Args[0]), annotationType(node.Index.Args[1]))
			}
		}
	}
	return AnyType
}

// ===== PASS 2: TYPE PROPAGATION =====

// recordVarType binds a variable type, first assignment wins.
func (inf *Inferencer) recordVarType(name string, typ *Type) {
	if _, seen := inf.VarTypes[name]; !seen {
		inf.VarTypes[name] = typ
	}
}

func (inf *Inferencer) propagateTypes(root *Node) {
	// first-assignment variable types across the whole tree
	Walk(root, func(n *Node) bool {
		if n.Kind != NodeAssign {
			return true
		}
		typ := inf.ExprType(n.Value)
		for _, target := range n.Args {
			switch {
			case target.Kind == NodeName:
				inf.recordVarType(target.Name, typ)
			case target.Kind == NodeTuple && n.Value.Kind == NodeTuple:
				// elementwise unpacking
				for i, elem := range target.Args {
					if elem.Kind == NodeName && i < len(n.Value.Args) {
						inf.recordVarType(elem.Name, inf.ExprType(n.Value.Args[i]))
					}
				}
			}
		}
		return true
	})

	// unannotated return types, then Any-parameter refinement, in tree order
	Walk(root, func(n *Node) bool {
		if n.Kind != NodeFunctionDef {
			return true
		}
		sig := inf.FuncSigs[n.Name]
		if sig == nil {
			return true
		}
		if sig.Return == nil {
			sig.Return = inf.inferReturnType(n, sig)
		}
		inf.refineParams(n, sig)
		return true
	})
}

func (inf *Inferencer) inferReturnType(fn *Node, sig *FuncSignature) *Type {
	var observed []*Type
	var returns []*Node
	Walk(fn, func(n *Node) bool {
		// `return None` counts as a bare return
		if n.Kind == NodeReturn && n.Value != nil && n.Value.Kind != NodeNone {
			returns = append(returns, n.Value)
			if t := inf.exprType(n.Value, sig); t != nil {
				found := false
				for _, seen := range observed {
					if typesEqual(seen, t) {
						found = true
						break
					}
				}
				if !found {
					observed = append(observed, t)
				}
			} else {
				observed = append(observed, nil)
			}
		}
		return true
	})

	if len(returns) == 0 {
		return VoidType
	}
	known := observed[:0:0]
	ambiguous := false
	for _, t := range observed {
		if t == nil {
			ambiguous = true
			continue
		}
		known = append(known, t)
	}
	if !ambiguous && len(known) == 1 {
		return known[0]
	}
	if !ambiguous && len(known) == 2 && isNumeric(known[0]) && isNumeric(known[1]) {
		return DoubleType
	}
	// last resort: every return expression independently resolves to Int
	allInt := true
	for _, r := range returns {
		if !inf.isIntExpr(r, sig) {
			allInt = false
			break
		}
	}
	if allInt {
		return IntType
	}
	return AnyType
}

// isIntExpr is a dedicated integer-ness check, recursing through arithmetic,
// names bound to Int and calls to functions already known to return Int.
func (inf *Inferencer) isIntExpr(node *Node, sig *FuncSignature) bool {
	switch node.Kind {
	case NodeInt:
		return true
	case NodeUnary:
		if node.Op == "-" || node.Op == "+" {
			return inf.isIntExpr(node.Value, sig)
		}
	case NodeBinary:
		switch node.Op {
		case "+", "-", "*", "%", "//", "**":
			return inf.isIntExpr(node.Left, sig) && inf.isIntExpr(node.Right, sig)
		}
	case NodeName:
		if t, ok := inf.VarTypes[node.Name]; ok && t.Kind == TypeInt {
			return true
		}
		if sig != nil {
			if t, ok := sig.Params[node.Name]; ok && t.Kind == TypeInt {
				return true
			}
		}
	case NodeCall:
		if node.Value.Kind != NodeName {
			return false
		}
		if callee, ok := inf.FuncSigs[node.Value.Name]; ok && callee.Return != nil {
			return callee.Return.Kind == TypeInt
		}
		if t := builtinReturnType(node.Value.Name); t != nil {
			return t.Kind == TypeInt
		}
	}
	return false
}

// refineParams upgrades parameters still typed Any by scanning their uses in
// the body: arithmetic implies Int unless a Double co-occurs, a comparison
// against a numeric expression implies that type. Int wins when both are seen.
func (inf *Inferencer) refineParams(fn *Node, sig *FuncSignature) {
	for _, name := range sig.ParamNames {
		if sig.Params[name].Kind != TypeAny {
			continue
		}
		sawInt, sawDouble := false, false
		observe := func(t *Type) {
			if t == nil {
				return
			}
			switch t.Kind {
			case TypeInt:
				sawInt = true
			case TypeDouble:
				sawDouble = true
			}
		}
		Walk(fn, func(n *Node) bool {
			switch n.Kind {
			case NodeBinary:
				switch n.Op {
				case "+", "-", "*", "/", "//", "%", "**":
					if isNameRef(n.Left, name) {
						if t := inf.exprType(n.Right, sig); t != nil && t.Kind == TypeDouble {
							sawDouble = true
						} else {
							sawInt = true
						}
					} else if isNameRef(n.Right, name) {
						if t := inf.exprType(n.Left, sig); t != nil && t.Kind == TypeDouble {
							sawDouble = true
						} else {
							sawInt = true
						}
					}
				}
			case NodeCompare:
				operands := append([]*Node{n.Left}, n.Args...)
				for i, operand := range operands {
					if !isNameRef(operand, name) {
						continue
					}
					if i > 0 {
						observe(inf.exprType(operands[i-1], sig))
					}
					if i+1 < len(operands) {
						observe(inf.exprType(operands[i+1], sig))
					}
				}
			}
			return true
		})
		if sawInt {
			sig.Params[name] = IntType
		} else if sawDouble {
			sig.Params[name] = DoubleType
		}
	}
}

func isNameRef(node *Node, name string) bool {
	return node != nil && node.Kind == NodeName && node.Name == name
}

// ===== EXPRESSION TYPES =====

// exprType is the structural inference function. nil means "unknown"; the
// exported ExprType maps that to Any.
func (inf *Inferencer) exprType(node *Node, sig *FuncSignature) *Type {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case NodeInt:
		return IntType
	case NodeFloat:
		return DoubleType
	case NodeBool:
		return BoolType
	case NodeString, NodeFString:
		return StringType
	case NodeNone:
		return nil

	case NodeList:
		if len(node.Args) == 0 {
			return ArrayOf(AnyType)
		}
		elem := inf.exprType(node.Args[0], sig)
		for _, e := range node.Args[1:] {
			if !typesEqual(elem, inf.exprType(e, sig)) {
				elem = nil
				break
			}
		}
		if elem == nil {
			return ArrayOf(AnyType)
		}
		return ArrayOf(elem)

	case NodeDict:
		if len(node.Keys) == 0 {
			return MapOf(StringType, AnyType)
		}
		key := inf.exprType(node.Keys[0], sig)
		val := inf.exprType(node.Values[0], sig)
		for i := 1; i < len(node.Keys); i++ {
			if !typesEqual(key, inf.exprType(node.Keys[i], sig)) {
				key = nil
			}
			if !typesEqual(val, inf.exprType(node.Values[i], sig)) {
				val = nil
			}
		}
		if key == nil || val == nil {
			return MapOf(StringType, AnyType)
		}
		return MapOf(key, val)

	case NodeBinary:
		left := inf.exprType(node.Left, sig)
		right := inf.exprType(node.Right, sig)
		if left != nil && left.Kind == TypeInt && right != nil && right.Kind == TypeInt {
			if node.Op == "/" {
				return DoubleType
			}
			return IntType
		}
		if isNumeric(left) && isNumeric(right) {
			return DoubleType
		}
		if typesEqual(left, right) {
			return left
		}
		if left != nil && right == nil {
			return left
		}
		if right != nil && left == nil {
			return right
		}
		return nil

	case NodeBoolOp, NodeCompare:
		return BoolType

	case NodeUnary:
		if node.Op == "not" {
			return BoolType
		}
		return inf.exprType(node.Value, sig)

	case NodeName:
		if t, ok := inf.VarTypes[node.Name]; ok {
			return t
		}
		if sig != nil {
			if t, ok := sig.Params[node.Name]; ok && t.Kind != TypeAny {
				return t
			}
		}
		return nil

	case NodeCall:
		if node.Value.Kind != NodeName {
			return nil
		}
		if callee, ok := inf.FuncSigs[node.Value.Name]; ok && callee.Return != nil {
			return callee.Return
		}
		return builtinReturnType(node.Value.Name)

	case NodeSubscript:
		base := inf.exprType(node.Value, sig)
		if base != nil && base.Kind == TypeArray && node.Index != nil && node.Index.Kind != NodeSlice {
			return base.Elem
		}
		if base != nil && base.Kind == TypeArray {
			return base
		}
		return nil
	}
	return nil
}

// builtinReturnType is the fixed table of built-in call results.
func builtinReturnType(name string) *Type {
	switch name {
	case "int", "len", "sum", "min", "max":
		return IntType
	case "float", "abs":
		return DoubleType
	case "str":
		return StringType
	case "print":
		return VoidType
	case "list":
		return ArrayOf(AnyType)
	}
	return nil
}

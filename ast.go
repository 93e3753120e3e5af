package main

// NodeKind represents different types of AST nodes
type NodeKind string

const (
	// Statements
	NodeModule      NodeKind = "NodeModule"
	NodeFunctionDef NodeKind = "NodeFunctionDef"
	NodeClassDef    NodeKind = "NodeClassDef"
	NodeAssign      NodeKind = "NodeAssign"
	NodeAugAssign   NodeKind = "NodeAugAssign"
	NodeIf          NodeKind = "NodeIf"
	NodeFor         NodeKind = "NodeFor"
	NodeWhile       NodeKind = "NodeWhile"
	NodeBreak       NodeKind = "NodeBreak"
	NodeContinue    NodeKind = "NodeContinue"
	NodePass        NodeKind = "NodePass"
	NodeExprStmt    NodeKind = "NodeExprStmt"
	NodeTry         NodeKind = "NodeTry"
	NodeExcept      NodeKind = "NodeExcept"
	NodeReturn      NodeKind = "NodeReturn"
	NodeImport      NodeKind = "NodeImport"
	NodeImportFrom  NodeKind = "NodeImportFrom"
	NodeParam       NodeKind = "NodeParam"

	// Expressions
	NodeName      NodeKind = "NodeName"
	NodeInt       NodeKind = "NodeInt"
	NodeFloat     NodeKind = "NodeFloat"
	NodeString    NodeKind = "NodeString"
	NodeFString   NodeKind = "NodeFString"
	NodeBool      NodeKind = "NodeBool"
	NodeNone      NodeKind = "NodeNone"
	NodeAttribute NodeKind = "NodeAttribute"
	NodeCall      NodeKind = "NodeCall"
	NodeBinary    NodeKind = "NodeBinary"
	NodeUnary     NodeKind = "NodeUnary"
	NodeBoolOp    NodeKind = "NodeBoolOp"
	NodeCompare   NodeKind = "NodeCompare"
	NodeList      NodeKind = "NodeList"
	NodeDict      NodeKind = "NodeDict"
	NodeSet       NodeKind = "NodeSet"
	NodeTuple     NodeKind = "NodeTuple"
	NodeListComp  NodeKind = "NodeListComp"
	NodeIfExp     NodeKind = "NodeIfExp"
	NodeLambda    NodeKind = "NodeLambda"
	NodeSubscript NodeKind = "NodeSubscript"
	NodeSlice     NodeKind = "NodeSlice"
	NodeYield     NodeKind = "NodeYield"
)

// Node represents a node in the Abstract Syntax Tree. The tree is built once
// by the front-end and is not mutated afterwards.
type Node struct {
	Kind NodeKind
	Line int // 1-based source line, for diagnostics

	// NodeName, NodeFunctionDef, NodeClassDef, NodeAttribute (field name),
	// NodeImportFrom (module name), NodeExcept (exception type name, "" for bare)
	Name string
	// NodeBinary, NodeUnary, NodeAugAssign, NodeBoolOp ("and"/"or")
	Op string
	// NodeString (decoded value), NodeFString (raw payload)
	Str      string
	IntVal   int64
	FloatVal float64
	BoolVal  bool

	// NodeBinary, NodeCompare (first operand), NodeIfExp (true branch)
	Left *Node
	// NodeBinary, NodeIfExp (false branch)
	Right *Node
	// NodeAugAssign, NodeFor (loop variable), NodeListComp (generator target)
	Target *Node
	// RHS of assignments, return value, base of attribute/subscript/call,
	// expression-statement payload, lambda body, comprehension element, yield value
	Value *Node
	// NodeFor, NodeListComp: the iterated expression
	Iter *Node
	// NodeIf, NodeWhile, NodeIfExp, NodeListComp (filter, may be nil)
	Test *Node
	// NodeSubscript
	Index *Node
	// NodeSlice
	Lower, Upper, Step *Node
	// NodeFunctionDef: return annotation expression (nil when absent)
	Returns *Node

	Body     []*Node // block statements
	Else     []*Node // else/elif branch, loop else, try finally
	Handlers []*Node // NodeTry: NodeExcept nodes
	// Call arguments, function/lambda parameters (NodeParam), container
	// elements, compare comparators, boolop operands, fstring parts,
	// assignment targets, class base expressions
	Args   []*Node
	Keys   []*Node  // NodeDict
	Values []*Node  // NodeDict
	Ops    []string // NodeCompare: operators, parallel to Args
	Names  []string // NodeImport/NodeImportFrom: imported names
	// NodeFunctionDef: decorator names
	Decorators []string
	// NodeListComp: number of generator clauses in the source
	Generators int
	// NodeFunctionDef: declared with "async def"
	IsAsync bool
}

// Walk calls fn for node and every node reachable from it, depth-first.
// Children are not visited when fn returns false for their parent.
func Walk(node *Node, fn func(*Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for _, child := range []*Node{
		node.Left, node.Right, node.Target, node.Value, node.Iter,
		node.Test, node.Index, node.Lower, node.Upper, node.Step, node.Returns,
	} {
		Walk(child, fn)
	}
	for _, list := range [][]*Node{node.Body, node.Else, node.Handlers, node.Args, node.Keys, node.Values} {
		for _, child := range list {
			Walk(child, fn)
		}
	}
}

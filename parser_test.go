package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// mustParse parses source and fails the test on a parse error.
func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	root, err := ParseProgram(src)
	be.Err(t, err, nil)
	be.Equal(t, root.Kind, NodeModule)
	return root
}

func TestParseAssignment(t *testing.T) {
	root := mustParse(t, "x = 1\n")
	be.Equal(t, len(root.Body), 1)

	assign := root.Body[0]
	be.Equal(t, assign.Kind, NodeAssign)
	be.Equal(t, len(assign.Args), 1)
	be.Equal(t, assign.Args[0].Kind, NodeName)
	be.Equal(t, assign.Args[0].Name, "x")
	be.Equal(t, assign.Value.Kind, NodeInt)
	be.Equal(t, assign.Value.IntVal, int64(1))
}

func TestParseChainedAssignment(t *testing.T) {
	root := mustParse(t, "a = b = 5\n")
	assign := root.Body[0]
	be.Equal(t, assign.Kind, NodeAssign)
	be.Equal(t, len(assign.Args), 2)
	be.Equal(t, assign.Args[0].Name, "a")
	be.Equal(t, assign.Args[1].Name, "b")
	be.Equal(t, assign.Value.IntVal, int64(5))
}

func TestParseAugmentedAssignment(t *testing.T) {
	root := mustParse(t, "x += 2\n")
	aug := root.Body[0]
	be.Equal(t, aug.Kind, NodeAugAssign)
	be.Equal(t, aug.Op, "+")
	be.Equal(t, aug.Target.Name, "x")
	be.Equal(t, aug.Value.IntVal, int64(2))
}

func TestParseAugmentedFloorDivAndPower(t *testing.T) {
	root := mustParse(t, "x //= 2\ny **= 3\n")
	be.Equal(t, root.Body[0].Kind, NodeAugAssign)
	be.Equal(t, root.Body[0].Op, "//")
	be.Equal(t, root.Body[1].Kind, NodeAugAssign)
	be.Equal(t, root.Body[1].Op, "**")
}

func TestParseTupleAssignment(t *testing.T) {
	root := mustParse(t, "a, b = b, a\n")
	assign := root.Body[0]
	be.Equal(t, assign.Kind, NodeAssign)
	be.Equal(t, assign.Args[0].Kind, NodeTuple)
	be.Equal(t, len(assign.Args[0].Args), 2)
	be.Equal(t, assign.Value.Kind, NodeTuple)
	be.Equal(t, len(assign.Value.Args), 2)
}

func TestParseFunctionDef(t *testing.T) {
	root := mustParse(t, "def add(a, b: int) -> int:\n    return a + b\n")
	fn := root.Body[0]
	be.Equal(t, fn.Kind, NodeFunctionDef)
	be.Equal(t, fn.Name, "add")
	be.Equal(t, len(fn.Args), 2)
	be.Equal(t, fn.Args[0].Name, "a")
	be.True(t, fn.Args[0].Value == nil)
	be.Equal(t, fn.Args[1].Name, "b")
	be.Equal(t, fn.Args[1].Value.Kind, NodeName)
	be.Equal(t, fn.Args[1].Value.Name, "int")
	be.Equal(t, fn.Returns.Name, "int")
	be.Equal(t, len(fn.Body), 1)
	be.Equal(t, fn.Body[0].Kind, NodeReturn)
}

func TestParseDefaultValuesDropped(t *testing.T) {
	root := mustParse(t, "def f(a, b=10):\n    return a\n")
	fn := root.Body[0]
	be.Equal(t, len(fn.Args), 2)
	be.Equal(t, fn.Args[1].Name, "b")
	// the default expression does not survive into the tree
	be.True(t, fn.Args[1].Value == nil)
}

func TestParseDecoratedFunction(t *testing.T) {
	root := mustParse(t, "@classmethod\ndef make(cls):\n    return 1\n")
	fn := root.Body[0]
	be.Equal(t, fn.Kind, NodeFunctionDef)
	be.Equal(t, fn.Decorators, []string{"classmethod"})
}

func TestParseAsyncFunctionFlag(t *testing.T) {
	root := mustParse(t, "async def fetch():\n    pass\n")
	fn := root.Body[0]
	be.Equal(t, fn.Kind, NodeFunctionDef)
	be.True(t, fn.IsAsync)
}

func TestParseClassDef(t *testing.T) {
	root := mustParse(t, "class Dog(Animal):\n    def bark(self):\n        pass\n")
	cls := root.Body[0]
	be.Equal(t, cls.Kind, NodeClassDef)
	be.Equal(t, cls.Name, "Dog")
	be.Equal(t, len(cls.Args), 1)
	be.Equal(t, cls.Args[0].Name, "Animal")
	be.Equal(t, cls.Body[0].Kind, NodeFunctionDef)
}

func TestParseElifBecomesNestedIf(t *testing.T) {
	root := mustParse(t, "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n")
	ifNode := root.Body[0]
	be.Equal(t, ifNode.Kind, NodeIf)
	be.Equal(t, len(ifNode.Else), 1)
	be.Equal(t, ifNode.Else[0].Kind, NodeIf)
	be.Equal(t, ifNode.Else[0].Test.Name, "b")
	be.Equal(t, len(ifNode.Else[0].Else), 1)
	be.Equal(t, ifNode.Else[0].Else[0].Kind, NodePass)
}

func TestParseForElse(t *testing.T) {
	root := mustParse(t, "for i in xs:\n    pass\nelse:\n    pass\n")
	forNode := root.Body[0]
	be.Equal(t, forNode.Kind, NodeFor)
	be.Equal(t, forNode.Target.Name, "i")
	be.Equal(t, forNode.Iter.Name, "xs")
	be.Equal(t, len(forNode.Else), 1)
}

func TestParseForIterWithCall(t *testing.T) {
	root := mustParse(t, "for i in range(5):\n    print(i)\n")
	forNode := root.Body[0]
	be.Equal(t, forNode.Kind, NodeFor)
	be.Equal(t, forNode.Target.Kind, NodeName)
	be.Equal(t, forNode.Target.Name, "i")
	be.Equal(t, forNode.Iter.Kind, NodeCall)
	be.Equal(t, forNode.Iter.Value.Name, "range")
}

func TestParseForTupleTarget(t *testing.T) {
	root := mustParse(t, "for k, v in pairs:\n    print(k)\n")
	forNode := root.Body[0]
	be.Equal(t, forNode.Target.Kind, NodeTuple)
	be.Equal(t, len(forNode.Target.Args), 2)
	be.Equal(t, forNode.Target.Args[1].Name, "v")
	be.Equal(t, forNode.Iter.Name, "pairs")
}

func TestParseForSubscriptTarget(t *testing.T) {
	root := mustParse(t, "for a[0] in xs:\n    pass\n")
	forNode := root.Body[0]
	be.Equal(t, forNode.Target.Kind, NodeSubscript)
	be.Equal(t, forNode.Iter.Name, "xs")
}

func TestParseWhileElse(t *testing.T) {
	root := mustParse(t, "while x:\n    pass\nelse:\n    pass\n")
	whileNode := root.Body[0]
	be.Equal(t, whileNode.Kind, NodeWhile)
	be.Equal(t, len(whileNode.Else), 1)
}

func TestParseTryExcept(t *testing.T) {
	root := mustParse(t, "try:\n    pass\nexcept ValueError as e:\n    pass\nexcept:\n    pass\n")
	try := root.Body[0]
	be.Equal(t, try.Kind, NodeTry)
	be.Equal(t, len(try.Handlers), 2)
	be.Equal(t, try.Handlers[0].Name, "ValueError")
	be.Equal(t, try.Handlers[1].Name, "")
	be.Equal(t, len(try.Else), 0)
}

func TestParseTryFinallyKeptForDiagnosis(t *testing.T) {
	root := mustParse(t, "try:\n    pass\nexcept:\n    pass\nfinally:\n    pass\n")
	try := root.Body[0]
	be.Equal(t, len(try.Else), 1)
}

func TestParseComparisonChain(t *testing.T) {
	root := mustParse(t, "1 < x < 10\n")
	cmp := root.Body[0].Value
	be.Equal(t, cmp.Kind, NodeCompare)
	be.Equal(t, cmp.Ops, []string{"<", "<"})
	be.Equal(t, len(cmp.Args), 2)
	be.Equal(t, cmp.Left.IntVal, int64(1))
}

func TestParseMembershipOperators(t *testing.T) {
	root := mustParse(t, "a in xs\nb not in xs\nc is None\nd is not None\n")
	ops := []string{"in", "not in", "is", "is not"}
	for i, want := range ops {
		cmp := root.Body[i].Value
		be.Equal(t, cmp.Kind, NodeCompare)
		be.Equal(t, cmp.Ops, []string{want})
	}
}

func TestParseTernary(t *testing.T) {
	root := mustParse(t, "v = 1 if ok else 2\n")
	ifExp := root.Body[0].Value
	be.Equal(t, ifExp.Kind, NodeIfExp)
	be.Equal(t, ifExp.Left.IntVal, int64(1))
	be.Equal(t, ifExp.Test.Name, "ok")
	be.Equal(t, ifExp.Right.IntVal, int64(2))
}

func TestParsePowerRightAssociative(t *testing.T) {
	root := mustParse(t, "2 ** 3 ** 2\n")
	pow := root.Body[0].Value
	be.Equal(t, pow.Kind, NodeBinary)
	be.Equal(t, pow.Op, "**")
	be.Equal(t, pow.Left.IntVal, int64(2))
	be.Equal(t, pow.Right.Kind, NodeBinary)
	be.Equal(t, pow.Right.Op, "**")
}

func TestParseCallKwargsDropped(t *testing.T) {
	root := mustParse(t, "f(1, sep=2)\n")
	call := root.Body[0].Value
	be.Equal(t, call.Kind, NodeCall)
	be.Equal(t, len(call.Args), 1)
	be.Equal(t, call.Args[0].IntVal, int64(1))
}

func TestParseMethodCall(t *testing.T) {
	root := mustParse(t, "obj.run(1)\n")
	call := root.Body[0].Value
	be.Equal(t, call.Kind, NodeCall)
	be.Equal(t, call.Value.Kind, NodeAttribute)
	be.Equal(t, call.Value.Name, "run")
	be.Equal(t, call.Value.Value.Name, "obj")
}

func TestParseSubscriptAndSlice(t *testing.T) {
	root := mustParse(t, "a[1]\na[1:3]\na[::-1]\n")

	plain := root.Body[0].Value
	be.Equal(t, plain.Kind, NodeSubscript)
	be.Equal(t, plain.Index.IntVal, int64(1))

	sliced := root.Body[1].Value
	be.Equal(t, sliced.Index.Kind, NodeSlice)
	be.Equal(t, sliced.Index.Lower.IntVal, int64(1))
	be.Equal(t, sliced.Index.Upper.IntVal, int64(3))
	be.True(t, sliced.Index.Step == nil)

	reversed := root.Body[2].Value
	be.Equal(t, reversed.Index.Kind, NodeSlice)
	be.True(t, reversed.Index.Lower == nil)
	be.True(t, reversed.Index.Upper == nil)
	be.Equal(t, reversed.Index.Step.Kind, NodeUnary)
}

func TestParseTupleSubscriptIndex(t *testing.T) {
	root := mustParse(t, "def f(table: Dict[str, int]):\n    pass\n")
	ann := root.Body[0].Args[0].Value
	be.Equal(t, ann.Kind, NodeSubscript)
	be.Equal(t, ann.Value.Name, "Dict")
	be.Equal(t, ann.Index.Kind, NodeTuple)
	be.Equal(t, len(ann.Index.Args), 2)
	be.Equal(t, ann.Index.Args[0].Name, "str")
	be.Equal(t, ann.Index.Args[1].Name, "int")
}

func TestParseComprehension(t *testing.T) {
	root := mustParse(t, "[x * 2 for x in xs if x > 1]\n")
	comp := root.Body[0].Value
	be.Equal(t, comp.Kind, NodeListComp)
	be.Equal(t, comp.Generators, 1)
	be.Equal(t, comp.Target.Name, "x")
	be.Equal(t, comp.Iter.Name, "xs")
	be.Equal(t, comp.Test.Kind, NodeCompare)
	be.Equal(t, comp.Value.Kind, NodeBinary)
}

func TestParseComprehensionCountsExtraGenerators(t *testing.T) {
	root := mustParse(t, "[x for x in xs for y in ys]\n")
	comp := root.Body[0].Value
	be.Equal(t, comp.Kind, NodeListComp)
	be.Equal(t, comp.Generators, 2)
}

func TestParseDictSetAndList(t *testing.T) {
	root := mustParse(t, "{\"a\": 1}\n{1, 2}\n[1, 2]\n{}\n")
	be.Equal(t, root.Body[0].Value.Kind, NodeDict)
	be.Equal(t, root.Body[0].Value.Keys[0].Str, "a")
	be.Equal(t, root.Body[1].Value.Kind, NodeSet)
	be.Equal(t, root.Body[2].Value.Kind, NodeList)
	be.Equal(t, root.Body[3].Value.Kind, NodeDict)
	be.Equal(t, len(root.Body[3].Value.Keys), 0)
}

func TestParseFStringParts(t *testing.T) {
	root := mustParse(t, `f"a{x}b"`+"\n")
	fstr := root.Body[0].Value
	be.Equal(t, fstr.Kind, NodeFString)
	be.Equal(t, len(fstr.Args), 3)
	be.Equal(t, fstr.Args[0].Kind, NodeString)
	be.Equal(t, fstr.Args[0].Str, "a")
	be.Equal(t, fstr.Args[1].Kind, NodeName)
	be.Equal(t, fstr.Args[1].Name, "x")
	be.Equal(t, fstr.Args[2].Str, "b")
}

func TestParseFStringFormatSpecStripped(t *testing.T) {
	root := mustParse(t, `f"{pi:.2f}"`+"\n")
	fstr := root.Body[0].Value
	be.Equal(t, len(fstr.Args), 1)
	be.Equal(t, fstr.Args[0].Kind, NodeName)
	be.Equal(t, fstr.Args[0].Name, "pi")
}

func TestParseFStringColonInsideSubscript(t *testing.T) {
	root := mustParse(t, `f"{d[':']}"`+"\n")
	fstr := root.Body[0].Value
	be.Equal(t, len(fstr.Args), 1)
	be.Equal(t, fstr.Args[0].Kind, NodeSubscript)
	be.Equal(t, fstr.Args[0].Index.Str, ":")
}

func TestParseFStringComparisonKept(t *testing.T) {
	root := mustParse(t, `f"{a != b}"`+"\n")
	fstr := root.Body[0].Value
	be.Equal(t, len(fstr.Args), 1)
	be.Equal(t, fstr.Args[0].Kind, NodeCompare)
	be.Equal(t, fstr.Args[0].Ops, []string{"!="})
}

func TestParseInlineBlock(t *testing.T) {
	root := mustParse(t, "if a: pass\n")
	be.Equal(t, root.Body[0].Kind, NodeIf)
	be.Equal(t, len(root.Body[0].Body), 1)
	be.Equal(t, root.Body[0].Body[0].Kind, NodePass)
}

func TestParseImports(t *testing.T) {
	root := mustParse(t, "import math, os\nfrom typing import List as L\n")
	be.Equal(t, root.Body[0].Kind, NodeImport)
	be.Equal(t, root.Body[0].Names, []string{"math", "os"})
	be.Equal(t, root.Body[1].Kind, NodeImportFrom)
	be.Equal(t, root.Body[1].Name, "typing")
	be.Equal(t, root.Body[1].Names, []string{"List"})
}

func TestParseErrorHasLine(t *testing.T) {
	_, err := ParseProgram("x = 1\ny = = 2\n")
	be.Err(t, err)

	perr, ok := err.(*ParseError)
	be.True(t, ok)
	be.Equal(t, perr.Line, 2)
	be.True(t, strings.Contains(perr.Error(), "line 2"))
}

func TestParseErrorOnEmptyBlock(t *testing.T) {
	_, err := ParseProgram("def f():\n")
	be.Err(t, err)
}

func TestParseErrorOnBadIndentation(t *testing.T) {
	_, err := ParseProgram("if a:\n        b = 1\n    c = 2\n")
	be.Err(t, err)
}

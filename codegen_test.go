package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// generate runs the full pipeline and returns the output text and diagnostics.
func generate(t *testing.T, src string) (string, []Diagnostic) {
	t.Helper()
	text, diags, err := Generate(src)
	be.Err(t, err, nil)
	return text, diags
}

func containsLine(text, line string) bool {
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

func TestGenSwapSameContainer(t *testing.T) {
	text, _ := generate(t, "a = [1, 2]\na[0], a[1] = a[1], a[0]\n")
	be.True(t, strings.Contains(text, "a.swapAt(0, 1)"))
}

func TestGenSwapWithVariableIndices(t *testing.T) {
	text, _ := generate(t, "i = 0 + 0\nj = 1 + 0\na = [1, 2]\na[i], a[j] = a[j], a[i]\n")
	be.True(t, strings.Contains(text, "a.swapAt(i, j)"))
}

func TestGenSwapRejectsDifferentContainers(t *testing.T) {
	// right-hand side reads from b, so this is not a swap
	text, _ := generate(t, "i = 0 + 0\nj = 1 + 0\na = [1, 2]\nb = [3, 4]\na[i], a[j] = a[j], b[i]\n")
	be.True(t, !strings.Contains(text, "swapAt"))
	be.True(t, containsLine(text, "a[i] = a[j]"))
	be.True(t, containsLine(text, "a[j] = b[i]"))
}

func TestGenSwapRejectsUncrossedIndices(t *testing.T) {
	text, _ := generate(t, "a = [1, 2]\na[0], a[1] = a[0], a[1]\n")
	be.True(t, !strings.Contains(text, "swapAt"))
}

func TestGenHeuristicParamNames(t *testing.T) {
	text, _ := generate(t, "def f(i):\n    pass\n\ndef g(amount):\n    pass\n\ndef h(thing):\n    pass\n")
	be.True(t, strings.Contains(text, "func f(_ i: Int) {"))
	be.True(t, strings.Contains(text, "func g(_ amount: Double) {"))
	be.True(t, strings.Contains(text, "func h(_ thing: Any) {"))
}

func TestGenAsyncFunctionSkipped(t *testing.T) {
	text, diags := generate(t, "async def fetch():\n    pass\n\nprint(\"after\")\n")
	be.True(t, !strings.Contains(text, "func fetch"))
	be.True(t, containsLine(text, `print("after")`))
	be.True(t, diagnosticsContain(diags, "async function not supported"))
}

func TestGenFallbackNeverAborts(t *testing.T) {
	_, diags := generate(t, "from os import path\n")
	be.Equal(t, len(diags), 0)

	text, diags := generate(t, "def g():\n    yield 1\n")
	be.True(t, strings.Contains(text, "func g() {"))
	be.True(t, strings.Contains(text, "/* unsupported expression */"))
	be.True(t, diagnosticsContain(diags, "yield"))
}

func TestGenAugAssignFloorDivAndPower(t *testing.T) {
	text, _ := generate(t, "x = 9\nx //= 2\nx **= 3\nx %= 4\n")
	be.True(t, containsLine(text, "x = Int(Double(x) / Double(2))"))
	be.True(t, containsLine(text, "x = pow(x, 3)"))
	be.True(t, containsLine(text, "x %= 4"))
}

func TestGenTupleUnpacking(t *testing.T) {
	text, _ := generate(t, "a, b = 1, 2\n")
	be.True(t, containsLine(text, "let a: Int = 1"))
	be.True(t, containsLine(text, "let b: Int = 2"))
}

func TestGenReassignmentInsideFunctionScope(t *testing.T) {
	// x is declared in both scopes independently
	text, _ := generate(t, "x = \"top\"\ndef f():\n    x = \"inner\"\n    x = \"again\"\n")
	be.True(t, containsLine(text, `let x: String = "top"`))
	be.True(t, containsLine(text, `let x: String = "inner"`))
	be.True(t, containsLine(text, `x = "again"`))
}

func TestGenForLoopOverName(t *testing.T) {
	text, _ := generate(t, "xs = [1, 2]\nfor v in xs:\n    print(v)\n")
	be.True(t, containsLine(text, "for v in xs {"))
}

func TestGenForLoopOverListLiteral(t *testing.T) {
	text, _ := generate(t, "for v in [1, 2, 3]:\n    print(v)\n")
	be.True(t, containsLine(text, "for v in [1, 2, 3] {"))
}

func TestGenTryWithoutHandlers(t *testing.T) {
	text, diags := generate(t, "try:\n    print(\"risky\")\nfinally:\n    print(\"cleanup\")\n")
	be.True(t, containsLine(text, `print("risky")`))
	be.True(t, diagnosticsContain(diags, "try"))
}

func TestGenTryBecomesDoCatch(t *testing.T) {
	text, _ := generate(t, "try:\n    risky()\nexcept ValueError:\n    print(\"bad\")\nexcept:\n    print(\"other\")\n")
	be.True(t, containsLine(text, "do {"))
	be.True(t, containsLine(text, "} catch let error as ValueError {"))
	be.True(t, containsLine(text, "} catch {"))
}

func TestGenClassStaticAttributeWithoutType(t *testing.T) {
	text, _ := generate(t, "class Box:\n    thing = unknown()\n")
	be.True(t, containsLine(text, "static var thing = unknown()"))
}

func TestGenPassRendersComment(t *testing.T) {
	text, _ := generate(t, "if x:\n    pass\n")
	be.True(t, containsLine(text, "// pass"))
}

func TestGenImportFromRendersMappingComment(t *testing.T) {
	text, _ := generate(t, "from typing import List, Dict\n")
	be.True(t, containsLine(text, "// from typing import List, Dict  // map manually"))
}

func TestGenWarningsBlockOnlyWhenDiagnosed(t *testing.T) {
	clean, _ := generate(t, "x = 1\n")
	be.True(t, !strings.Contains(clean, "TRANSPILATION WARNINGS"))

	noisy, diags := generate(t, "for i in range(3):\n    pass\nelse:\n    pass\n")
	be.True(t, strings.Contains(noisy, "// TRANSPILATION WARNINGS:"))
	be.True(t, len(diags) > 0)
	for _, d := range diags {
		be.True(t, strings.Contains(noisy, "// "+d.String()))
	}
}

func TestGenMultipleGeneratorComprehensionFallsBack(t *testing.T) {
	text, diags := generate(t, "pairs = [x for x in xs for y in ys]\n")
	be.True(t, containsLine(text, "var pairs = []"))
	be.True(t, diagnosticsContain(diags, "multiple generators"))
}

func TestGenSliceWithUnsupportedStep(t *testing.T) {
	text, diags := generate(t, "xs = [1, 2, 3, 4]\nevery = xs[::2]\n")
	be.True(t, strings.Contains(text, "/* slice with unsupported step */"))
	be.True(t, diagnosticsContain(diags, "step"))
}

func TestGenBoundedReverseSliceDegrades(t *testing.T) {
	text, diags := generate(t, "xs = [1, 2, 3]\nr = xs[2:0:-1]\n")
	be.True(t, strings.Contains(text, "Array(xs.reversed())"))
	be.True(t, diagnosticsContain(diags, "step -1 and bounds"))
}

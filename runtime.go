package main

// RuntimeHelperFileName is the name of the optional Swift helper file
// written next to the output by `build -emit-runtime`.
const RuntimeHelperFileName = "PyRuntime.swift"

// swiftRuntimeHelpers bridges Python semantics with no direct Swift
// equivalent. Generated code does not depend on it; it exists for manual
// fixes after transpilation.
const swiftRuntimeHelpers = `import Foundation

// Runtime helpers for code transpiled from Python.

// Python modulo: the result takes the sign of the divisor.
func pyMod(_ a: Int, _ b: Int) -> Int {
    let r = a % b
    return (r != 0 && (r < 0) != (b < 0)) ? r + b : r
}

// Python floor division, rounding toward negative infinity.
func pyFloorDiv(_ a: Int, _ b: Int) -> Int {
    Int((Double(a) / Double(b)).rounded(.down))
}

// Prompted integer input, nil on EOF or unparsable text.
func pyReadInt(_ prompt: String) -> Int? {
    print(prompt, terminator: "")
    guard let line = readLine() else { return nil }
    return Int(line.trimmingCharacters(in: .whitespaces))
}
`

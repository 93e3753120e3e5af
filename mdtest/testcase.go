// Package mdtest extracts transpiler test cases from Markdown documents.
//
// A test case starts at a heading whose text begins with "Test: ". The body
// holds one `python` fence with the input source, followed by one or more
// expectation fences:
//
//	swift           exact generated body (header and warnings block stripped)
//	swift-contains  each line must appear as a substring of the output
//	diagnostics     each line must appear as a substring of some diagnostic
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExpectationType represents the type of an expectation code fence.
type ExpectationType string

const (
	ExpectSwift         ExpectationType = "swift"
	ExpectSwiftContains ExpectationType = "swift-contains"
	ExpectDiagnostics   ExpectationType = "diagnostics"
)

const inputFenceLanguage = "python"

// Expectation is a single expectation fence in a test case.
type Expectation struct {
	Type    ExpectationType
	Content string // fence content with the trailing newline stripped
}

// TestCase is one complete test case extracted from Markdown.
type TestCase struct {
	Name         string // heading text after "Test: "
	Input        string // Python source from the input fence
	Expectations []Expectation
}

// ExtractTestCases parses a Markdown document and extracts all test cases.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	md := goldmark.New()
	source := []byte(markdownContent)

	doc := md.Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var current *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			headingText := extractTextFromNode(n, source)
			if strings.HasPrefix(headingText, "Test: ") {
				if current != nil {
					if err := validateTestCase(current); err != nil {
						return ast.WalkStop, err
					}
					testCases = append(testCases, *current)
				}
				current = &TestCase{
					Name: strings.TrimPrefix(headingText, "Test: "),
				}
			}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := extractCodeBlockContent(n, source)
			lineNum := getLineNumber(n, source)

			if current == nil {
				if language != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", lineNum, language)
				}
				return ast.WalkContinue, nil
			}

			switch {
			case language == inputFenceLanguage:
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple python fences in test '%s'", lineNum, current.Name)
				}
				current.Input = strings.TrimRight(content, "\n")
			case isExpectationFence(language):
				current.Expectations = append(current.Expectations, Expectation{
					Type:    ExpectationType(language),
					Content: strings.TrimRight(content, "\n"),
				})
			case language != "":
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", lineNum, language, current.Name)
			}
		}

		return ast.WalkContinue, nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}

	if current != nil {
		if err := validateTestCase(current); err != nil {
			return nil, err
		}
		testCases = append(testCases, *current)
	}

	return testCases, nil
}

// extractTextFromNode extracts plain text content from a markdown node.
func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if text, ok := n.(*ast.Text); ok {
				buf.Write(text.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})

	return buf.String()
}

// extractCodeBlockContent extracts the content from a fenced code block.
func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	for i := 0; i < codeBlock.Lines().Len(); i++ {
		line := codeBlock.Lines().At(i)
		buf.Write(line.Value(source))
	}

	return buf.String()
}

func isExpectationFence(language string) bool {
	return language == string(ExpectSwift) ||
		language == string(ExpectSwiftContains) ||
		language == string(ExpectDiagnostics)
}

// validateTestCase ensures a test case has an input and at least one
// expectation.
func validateTestCase(testCase *TestCase) error {
	if testCase.Input == "" {
		return fmt.Errorf("test '%s' has no python fence", testCase.Name)
	}
	if len(testCase.Expectations) == 0 {
		return fmt.Errorf("test '%s' has no expectation fences", testCase.Name)
	}
	return nil
}

// getLineNumber calculates the line number of a given AST node.
func getLineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	startPos := node.Lines().At(0).Start
	lineNum := 1
	for i := 0; i < startPos && i < len(source); i++ {
		if source[i] == '\n' {
			lineNum++
		}
	}
	return lineNum
}

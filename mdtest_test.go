package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"pyswift/mdtest"
)

// TestMarkdownSuites runs every test case in testdata/*.md through the full
// pipeline and checks the expectation fences against the generated Swift.
func TestMarkdownSuites(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	for _, testFile := range testFiles {
		testName := strings.TrimSuffix(filepath.Base(testFile), ".md")

		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := mdtest.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					text, diags, err := Generate(tc.Input + "\n")
					be.Err(t, err, nil)

					for _, exp := range tc.Expectations {
						switch exp.Type {
						case mdtest.ExpectSwift:
							be.Equal(t, generatedBody(text), exp.Content)
						case mdtest.ExpectSwiftContains:
							for _, want := range expectationLines(exp.Content) {
								if !strings.Contains(text, want) {
									t.Errorf("output does not contain %q\noutput:\n%s", want, text)
								}
							}
						case mdtest.ExpectDiagnostics:
							for _, want := range expectationLines(exp.Content) {
								if !diagnosticsContain(diags, want) {
									t.Errorf("no diagnostic contains %q\ndiagnostics: %v", want, diags)
								}
							}
						}
					}
				})
			}
		})
	}
}

// generatedBody strips the fixed header and the trailing warnings block so
// expectations only cover the translated statements.
func generatedBody(text string) string {
	body := stripHeader(text)
	if i := strings.Index(body, "// TRANSPILATION WARNINGS:"); i >= 0 {
		body = body[:i]
	}
	return strings.TrimRight(body, "\n")
}

func expectationLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func diagnosticsContain(diags []Diagnostic, want string) bool {
	for _, d := range diags {
		if strings.Contains(d.String(), want) {
			return true
		}
	}
	return false
}

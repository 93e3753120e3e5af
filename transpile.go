package main

import "strings"

// Generate translates Python source into Swift source. The returned text is
// never empty and always ends with a newline. Diagnostics accumulate across
// the front-end and the generator in detection order and are also appended
// to the text as a trailing comment block. The only error is a *ParseError;
// any input that parses yields output.
func Generate(source string) (string, []Diagnostic, error) {
	var diags Diagnostics

	root, err := ParseSource(source, &diags)
	if err != nil {
		return "", nil, err
	}

	inf := NewInferencer()
	inf.Infer(root)

	gen := NewGenerator(inf, &diags)
	text := gen.Generate(root)
	return text, diags.List(), nil
}

// escapeString escapes a string for a Swift string literal. Escaping is
// idempotent: an already-escaped sequence is copied through, so re-escaping
// never doubles backslashes.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			if i+1 < len(s) {
				switch s[i+1] {
				case '\\', '"', 'n', 't', 'r':
					b.WriteByte('\\')
					b.WriteByte(s[i+1])
					i++
					continue
				}
			}
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

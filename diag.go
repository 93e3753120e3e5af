package main

import "fmt"

// Diagnostic is a non-fatal warning about an unsupported or approximated
// translation. Line is 0 when no source position is known.
type Diagnostic struct {
	Message string
	Line    int
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return d.Message
}

// Diagnostics is an append-only, ordered sink shared by the front-end, the
// inferencer and the generator. The zero value is ready to use.
type Diagnostics struct {
	list []Diagnostic
}

func (ds *Diagnostics) Add(line int, format string, args ...any) {
	ds.list = append(ds.list, Diagnostic{Message: fmt.Sprintf(format, args...), Line: line})
}

func (ds *Diagnostics) List() []Diagnostic {
	return ds.list
}

func (ds *Diagnostics) Empty() bool {
	return len(ds.list) == 0
}

package main

// Symbol represents a declared name within one scope frame.
type Symbol struct {
	Name      string
	Type      *Type
	IsMutable bool
	ScopeKind string // kind of the frame that owns the symbol
}

type scopeFrame struct {
	kind    string // "global", "func:<name>", "class:<name>"
	symbols map[string]*Symbol
}

// SymbolTable is a stack of name->symbol frames. The global frame is always
// present; no operation can empty the stack or fail.
type SymbolTable struct {
	frames []scopeFrame
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{frames: []scopeFrame{{kind: "global", symbols: map[string]*Symbol{}}}}
}

func (st *SymbolTable) PushScope(kind string) {
	st.frames = append(st.frames, scopeFrame{kind: kind, symbols: map[string]*Symbol{}})
}

// PopScope removes the innermost frame. Popping with only the global frame
// left is a no-op.
func (st *SymbolTable) PopScope() {
	if len(st.frames) > 1 {
		st.frames = st.frames[:len(st.frames)-1]
	}
}

// Declare inserts a symbol into the innermost frame, silently overwriting a
// previous declaration of the same name in that frame.
func (st *SymbolTable) Declare(name string, sym *Symbol) {
	frame := &st.frames[len(st.frames)-1]
	sym.ScopeKind = frame.kind
	frame.symbols[name] = sym
}

// Lookup searches innermost to outermost; nil when the name is nowhere bound.
func (st *SymbolTable) Lookup(name string) *Symbol {
	for i := len(st.frames) - 1; i >= 0; i-- {
		if sym, ok := st.frames[i].symbols[name]; ok {
			return sym
		}
	}
	return nil
}

func (st *SymbolTable) IsDeclaredInCurrentScope(name string) bool {
	_, ok := st.frames[len(st.frames)-1].symbols[name]
	return ok
}

// CurrentScopeKind reports the kind tag of the innermost frame.
func (st *SymbolTable) CurrentScopeKind() string {
	return st.frames[len(st.frames)-1].kind
}

package main

// TypeKind identifies a member of the closed type lattice the inferencer can
// produce. TypeAny is the universal fallback and is never narrowed.
type TypeKind int

const (
	TypeAny TypeKind = iota
	TypeInt
	TypeDouble
	TypeBool
	TypeString
	TypeArray
	TypeMap
	TypeVoid
)

// Type is a lattice member. Elem is the element type of an array and the
// value type of a map; Key is only set for maps. A Type is always fully
// constructed: an array or map never has a nil Elem/Key.
type Type struct {
	Kind TypeKind
	Key  *Type
	Elem *Type
}

var (
	IntType    = &Type{Kind: TypeInt}
	DoubleType = &Type{Kind: TypeDouble}
	BoolType   = &Type{Kind: TypeBool}
	StringType = &Type{Kind: TypeString}
	VoidType   = &Type{Kind: TypeVoid}
	AnyType    = &Type{Kind: TypeAny}
)

func ArrayOf(elem *Type) *Type {
	if elem == nil {
		elem = AnyType
	}
	return &Type{Kind: TypeArray, Elem: elem}
}

func MapOf(key, elem *Type) *Type {
	if key == nil {
		key = StringType
	}
	if elem == nil {
		elem = AnyType
	}
	return &Type{Kind: TypeMap, Key: key, Elem: elem}
}

// String renders the Swift spelling of the type.
func (t *Type) String() string {
	switch t.Kind {
	case TypeInt:
		return "Int"
	case TypeDouble:
		return "Double"
	case TypeBool:
		return "Bool"
	case TypeString:
		return "String"
	case TypeArray:
		return "[" + t.Elem.String() + "]"
	case TypeMap:
		return "[" + t.Key.String() + ": " + t.Elem.String() + "]"
	case TypeVoid:
		return "Void"
	default:
		return "Any"
	}
}

func typesEqual(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TypeArray:
		return typesEqual(a.Elem, b.Elem)
	case TypeMap:
		return typesEqual(a.Key, b.Key) && typesEqual(a.Elem, b.Elem)
	default:
		return true
	}
}

func isNumeric(t *Type) bool {
	return t != nil && (t.Kind == TypeInt || t.Kind == TypeDouble)
}

package analyze

import (
	"go/types"

	"typeprobe/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "typeprobe/container"
	Name    string // e.g., "Vector"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Qualified returns the name as written from another package: "container.Vector".
func (t TypeID) Qualified() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.PkgAlias(t.PkgPath) + "." + t.Name
}

// TypeKind represents the kind of a type's underlying structure.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map type
	TypeKindInterface          // interface type
	TypeKindFunc               // function type
	TypeKindChan               // channel type
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	case TypeKindFunc:
		return "func"
	case TypeKindChan:
		return "chan"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a named Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier
	Kind       TypeKind    // Kind of the underlying type
	TypeParams []string    // Type parameter names; non-empty for generic types
	Fields     []FieldInfo // For structs, every field (exported or not)
	Methods    []string    // Method names declared on T or *T, sorted
	GoType     types.Type  // The original go/types.Type
}

// IsGeneric returns true if the type must be instantiated before use.
func (t *TypeInfo) IsGeneric() bool {
	return len(t.TypeParams) > 0
}

// Field returns the field with the given name, or nil.
func (t *TypeInfo) Field(name string) *FieldInfo {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}

	return nil
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string     // Go field name
	Exported bool       // Whether the field is exported
	Type     types.Type // Field type
	Embedded bool       // Whether the field is embedded (anonymous)
	Index    int        // Field index in the struct
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all exported named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
	// Universe resolves every package reachable from the loaded roots.
	Universe *Universe
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
		Universe: NewUniverse(),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Exported named types defined in this package
}

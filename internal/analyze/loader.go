package analyze

import (
	"fmt"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph *TypeGraph
	dir   string
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph: NewTypeGraph(),
	}
}

// WithDir sets the directory packages.Load runs in; empty means the working directory.
func (a *Analyzer) WithDir(dir string) *Analyzer {
	a.dir = dir
	return a
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./container", "typeprobe/container", "fmt").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		a.AddPackage(pkg.Types)
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// AddPackage records the exported named types of an already type-checked
// package. It is how the vet analyzer feeds pass.Pkg into a graph.
func (a *Analyzer) AddPackage(pkg *types.Package) {
	if pkg == nil {
		return
	}

	a.graph.Universe.Add(pkg)

	pkgInfo := &PackageInfo{
		Path: pkg.Path(),
		Name: pkg.Name(),
	}

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		// Only process exported type names (not variables, constants, functions)
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() {
			continue
		}

		info := analyzeType(typeName)
		a.graph.Types[info.ID] = info
		pkgInfo.Types = append(pkgInfo.Types, info.ID)
	}

	a.graph.Packages[pkg.Path()] = pkgInfo
}

// analyzeType describes a named type declared at package scope.
func analyzeType(obj *types.TypeName) *TypeInfo {
	info := &TypeInfo{
		ID:     TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()},
		GoType: obj.Type(),
		Kind:   kindOf(obj.Type().Underlying()),
	}

	named, ok := obj.Type().(*types.Named)
	if !ok {
		// Alias declarations carry no methods of their own.
		return info
	}

	if tparams := named.TypeParams(); tparams != nil {
		for i := range tparams.Len() {
			info.TypeParams = append(info.TypeParams, tparams.At(i).Obj().Name())
		}
	}

	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := range st.NumFields() {
			field := st.Field(i)
			info.Fields = append(info.Fields, FieldInfo{
				Name:     field.Name(),
				Exported: field.Exported(),
				Type:     field.Type(),
				Embedded: field.Embedded(),
				Index:    i,
			})
		}
	}

	// The pointer method set is a superset of the value method set.
	mset := types.NewMethodSet(types.NewPointer(named))
	for i := range mset.Len() {
		info.Methods = append(info.Methods, mset.At(i).Obj().Name())
	}
	sort.Strings(info.Methods)

	return info
}

func kindOf(t types.Type) TypeKind {
	switch t.(type) {
	case *types.Basic:
		return TypeKindBasic
	case *types.Struct:
		return TypeKindStruct
	case *types.Pointer:
		return TypeKindPointer
	case *types.Slice:
		return TypeKindSlice
	case *types.Array:
		return TypeKindArray
	case *types.Map:
		return TypeKindMap
	case *types.Interface:
		return TypeKindInterface
	case *types.Signature:
		return TypeKindFunc
	case *types.Chan:
		return TypeKindChan
	default:
		return TypeKindUnknown
	}
}

// GetStruct returns the TypeInfo for a named struct.
func (a *Analyzer) GetStruct(pkgPath, typeName string) (*TypeInfo, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}
	info := a.graph.GetType(id)
	if info == nil {
		return nil, fmt.Errorf("type %s not found", id)
	}
	if info.Kind != TypeKindStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, info.Kind)
	}
	return info, nil
}

package analyze

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const containerPkg = "typeprobe/container"

func TestAnalyzer_LoadPackages(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages(containerPkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	assert.Contains(t, graph.Packages, containerPkg)

	vector := TypeID{PkgPath: containerPkg, Name: "Vector"}
	assert.Contains(t, graph.Types, vector)

	// noCopy is unexported and must not appear.
	assert.NotContains(t, graph.Types, TypeID{PkgPath: containerPkg, Name: "noCopy"})
}

func TestAnalyzer_GenericType(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages(containerPkg)
	require.NoError(t, err)

	pair := graph.GetType(TypeID{PkgPath: containerPkg, Name: "Pair"})
	require.NotNil(t, pair)
	assert.Equal(t, TypeKindStruct, pair.Kind)
	assert.True(t, pair.IsGeneric())
	assert.Equal(t, []string{"A", "B"}, pair.TypeParams)
	assert.Equal(t, "container.Pair[A, B]", TypeString(pair))
}

func TestAnalyzer_Methods(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages(containerPkg)
	require.NoError(t, err)

	vector := graph.GetType(TypeID{PkgPath: containerPkg, Name: "Vector"})
	require.NotNil(t, vector)
	assert.Equal(t, TypeKindSlice, vector.Kind)

	// Pointer-receiver methods are included.
	assert.Equal(t, []string{"Data", "Len", "Push", "Reserve"}, vector.Methods)
}

func TestAnalyzer_UnexportedField(t *testing.T) {
	analyzer := NewAnalyzer()
	_, err := analyzer.LoadPackages(containerPkg)
	require.NoError(t, err)

	private, err := analyzer.GetStruct(containerPkg, "TypeWithPrivateData")
	require.NoError(t, err)

	field := private.Field("data")
	require.NotNil(t, field)
	assert.False(t, field.Exported)
	assert.Nil(t, private.Field("Data"))

	public, err := analyzer.GetStruct(containerPkg, "TypeWithPublicData")
	require.NoError(t, err)
	require.NotNil(t, public.Field("Data"))
	assert.True(t, public.Field("Data").Exported)

	_, err = analyzer.GetStruct(containerPkg, "Vector")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a struct")
}

func TestAnalyzer_Universe(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages(containerPkg, "sync")
	require.NoError(t, err)

	pkg, err := graph.Universe.Import(containerPkg)
	require.NoError(t, err)
	assert.Equal(t, "container", pkg.Name())

	unsafePkg, err := graph.Universe.Import("unsafe")
	require.NoError(t, err)
	assert.Same(t, types.Unsafe, unsafePkg)

	assert.True(t, graph.Universe.Has("sync"))
	assert.Contains(t, graph.Universe.Paths(), "sync")

	_, err = graph.Universe.Import("example.com/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "was not loaded")
}

func TestTypeGraph_Match(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages(containerPkg)
	require.NoError(t, err)

	ids, err := graph.Match("**/container.TypeWith*")
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "TypeWithPrivateData", ids[0].Name)
	assert.Equal(t, "TypeWithPublicData", ids[1].Name)

	all, err := graph.Match("")
	require.NoError(t, err)
	assert.Len(t, all, len(graph.Types))

	_, err = graph.Match("[")
	require.Error(t, err)
}

func TestTypeID_String(t *testing.T) {
	id := TypeID{PkgPath: containerPkg, Name: "Vector"}
	assert.Equal(t, "typeprobe/container.Vector", id.String())
	assert.Equal(t, "container.Vector", id.Qualified())

	// Empty package path
	idNoPkg := TypeID{Name: "int"}
	assert.Equal(t, "int", idNoPkg.String())
	assert.Equal(t, "int", idNoPkg.Qualified())
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "basic", TypeKindBasic.String())
	assert.Equal(t, "struct", TypeKindStruct.String())
	assert.Equal(t, "pointer", TypeKindPointer.String())
	assert.Equal(t, "slice", TypeKindSlice.String())
	assert.Equal(t, "array", TypeKindArray.String())
	assert.Equal(t, "map", TypeKindMap.String())
	assert.Equal(t, "unknown", TypeKindUnknown.String())
}

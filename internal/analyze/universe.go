package analyze

import (
	"fmt"
	"go/types"
	"slices"
	"sort"
)

// Universe maps import paths to type-checked packages. It implements
// types.Importer so synthetic packages can be checked against packages
// that were already loaded, without invoking the build system again.
type Universe struct {
	pkgs map[string]*types.Package
}

// NewUniverse creates a Universe holding roots and everything they import.
func NewUniverse(roots ...*types.Package) *Universe {
	u := &Universe{pkgs: make(map[string]*types.Package)}
	for _, pkg := range roots {
		u.Add(pkg)
	}

	return u
}

// Add registers pkg and, transitively, every package it imports.
func (u *Universe) Add(pkg *types.Package) {
	if pkg == nil {
		return
	}

	if _, ok := u.pkgs[pkg.Path()]; ok {
		return
	}

	u.pkgs[pkg.Path()] = pkg
	for _, imp := range pkg.Imports() {
		u.Add(imp)
	}
}

// Import implements types.Importer.
func (u *Universe) Import(path string) (*types.Package, error) {
	if path == "unsafe" {
		return types.Unsafe, nil
	}

	pkg, ok := u.pkgs[path]
	if !ok {
		return nil, fmt.Errorf("package %q was not loaded", path)
	}

	return pkg, nil
}

// Has returns true if path resolves in this universe.
func (u *Universe) Has(path string) bool {
	if path == "unsafe" {
		return true
	}

	_, ok := u.pkgs[path]
	return ok
}

// Paths returns all known import paths, sorted.
func (u *Universe) Paths() []string {
	paths := make([]string, 0, len(u.pkgs))
	for p := range u.pkgs {
		paths = append(paths, p)
	}

	sort.Strings(paths)
	return slices.Clip(paths)
}

package engine

import (
	"maps"
	"sort"

	"github.com/njchilds90/symengine/cas"
)

// Vocabulary is the namespace an expression is parsed in: the base
// allowlist plus the variables declared for one request. A Vocabulary is
// never mutated after construction.
type Vocabulary struct {
	lib  *cas.Lib
	base map[string]any
	vars map[string]*cas.Sym
}

// NewVocabulary builds a base vocabulary from allowlisted library names.
func NewVocabulary(lib *cas.Lib, allowlist []string) *Vocabulary {
	base := make(map[string]any, len(allowlist))
	for _, name := range allowlist {
		if m, ok := lib.Root.Attr(name); ok {
			base[name] = m
		}
	}
	return &Vocabulary{lib: lib, base: base, vars: map[string]*cas.Sym{}}
}

// Declare returns a copy of v with one symbol per name. Declared names
// shadow allowlist entries; declaring a name twice yields one symbol.
func (v *Vocabulary) Declare(names ...string) *Vocabulary {
	out := &Vocabulary{lib: v.lib, base: v.base, vars: maps.Clone(v.vars)}
	for _, n := range names {
		if _, ok := out.vars[n]; !ok && cas.IsIdentifier(n) {
			out.vars[n] = cas.S(n)
		}
	}
	return out
}

// Lookup resolves a name inside the vocabulary.
func (v *Vocabulary) Lookup(name string) (any, bool) {
	if s, ok := v.vars[name]; ok {
		return s, true
	}
	m, ok := v.base[name]
	return m, ok
}

// IsBase reports whether name belongs to the base allowlist.
func (v *Vocabulary) IsBase(name string) bool {
	_, ok := v.base[name]
	return ok
}

// Variables lists the declared variable names in sorted order.
func (v *Vocabulary) Variables() []string {
	out := make([]string, 0, len(v.vars))
	for n := range v.vars {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

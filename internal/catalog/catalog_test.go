package catalog_test

import (
	"testing"

	"github.com/njchilds90/symengine/engine"
	"github.com/njchilds90/symengine/internal/catalog"
)

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(engine.New(engine.NewConfig()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_IndexesEveryTask(t *testing.T) {
	e := engine.New(engine.NewConfig())
	c, err := catalog.New(e)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != len(e.ListTasks()) {
		t.Errorf("want %d entries, got %d", len(e.ListTasks()), c.Len())
	}
}

func TestSearch_ByName(t *testing.T) {
	hits, err := newCatalog(t).Search("laplace", 10)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, h := range hits {
		if h.Task == "laplace_transform" {
			found = true
		}
	}
	if !found {
		t.Errorf("want laplace_transform among %v", hits)
	}
}

func TestSearch_Limit(t *testing.T) {
	hits, err := newCatalog(t).Search("matrix", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) > 2 {
		t.Errorf("want at most 2 hits, got %d", len(hits))
	}
}

func TestLookup_Title(t *testing.T) {
	tests := []struct{ task, title string }{
		{"laplace_transform", "Laplace Transform"},
		{"diff", "Diff"},
	}
	c := newCatalog(t)
	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			e, ok := c.Lookup(tt.task)
			if !ok {
				t.Fatalf("%s not indexed", tt.task)
			}
			if e.Title != tt.title {
				t.Errorf("want %q, got %q", tt.title, e.Title)
			}
		})
	}
}

func TestLookup_Tags(t *testing.T) {
	c := newCatalog(t)
	e, ok := c.Lookup("apart")
	if !ok {
		t.Fatal("apart not indexed")
	}
	if !contains(e.Tags, "polys") {
		t.Errorf("want polys tag, got %v", e.Tags)
	}
	a, ok := c.Lookup("invlaplace")
	if !ok {
		t.Fatal("invlaplace not indexed")
	}
	if !contains(a.Tags, "alias") || !contains(a.Tags, "integrals") {
		t.Errorf("want alias and integrals tags, got %v", a.Tags)
	}
}

func TestDescribe(t *testing.T) {
	doc, err := newCatalog(t).Describe("det")
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if doc.Summary == "" {
		t.Errorf("want a summary for det")
	}
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}

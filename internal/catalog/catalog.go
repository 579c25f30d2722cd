// Package catalog indexes engine tasks for free-text discovery.
//
// Every task the engine lists is registered as an MCP-shaped tool in an
// in-memory tooldiscovery index under the "symengine" namespace, tagged with
// the library packages that export it.
package catalog

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/njchilds90/symengine/engine"
)

// Namespace prefixes every tool ID in the index.
const Namespace = "symengine"

const backendName = "engine"

// Entry is one search hit.
type Entry struct {
	Task        string   `json:"task"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// Catalog is a read-only index over an engine's tasks.
type Catalog struct {
	idx     index.Index
	docs    tooldoc.Store
	entries map[string]Entry
}

// New indexes every task of e.
func New(e *engine.Engine) (*Catalog, error) {
	idx := index.NewInMemoryIndex()
	var docs tooldoc.Store = tooldoc.NewInMemoryStore(tooldoc.StoreOptions{Index: idx})
	c := &Catalog{idx: idx, docs: docs, entries: map[string]Entry{}}

	title := cases.Title(language.English)
	tags := packageTags(e)
	for _, task := range e.ListTasks() {
		desc := e.Describe(task)
		if desc == "" {
			desc = "Library operation " + task + "."
		}
		t := tags[task]
		if target, ok := e.Alias(task); ok {
			t = append([]string{"alias"}, tags[target]...)
		}
		entry := Entry{
			Task:        task,
			Title:       title.String(strings.ReplaceAll(task, "_", " ")),
			Description: desc,
			Tags:        model.NormalizeTags(t),
		}
		tool := model.Tool{
			Tool: mcp.Tool{
				Name:        task,
				Title:       entry.Title,
				Description: desc,
				InputSchema: inputSchema,
			},
			Namespace: Namespace,
			Tags:      entry.Tags,
		}
		if err := idx.RegisterTool(tool, model.NewLocalBackend(backendName)); err != nil {
			return nil, fmt.Errorf("catalog: register %s: %w", task, err)
		}
		if s, ok := docs.(*tooldoc.InMemoryStore); ok {
			if err := s.RegisterDoc(toolID(task), tooldoc.DocEntry{Summary: desc, Notes: usage(task, e)}); err != nil {
				return nil, fmt.Errorf("catalog: document %s: %w", task, err)
			}
		}
		c.entries[task] = entry
	}
	return c, nil
}

// Search returns up to limit tasks matching query, best first.
func (c *Catalog) Search(query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	hits, err := c.idx.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search %q: %w", query, err)
	}
	out := make([]Entry, 0, len(hits))
	for _, h := range hits {
		if e, ok := c.entries[taskOf(h)]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Lookup returns the entry for task.
func (c *Catalog) Lookup(task string) (Entry, bool) {
	e, ok := c.entries[task]
	return e, ok
}

// Describe returns the full documentation record of task.
func (c *Catalog) Describe(task string) (tooldoc.ToolDoc, error) {
	return c.docs.DescribeTool(toolID(task), tooldoc.DetailFull)
}

// Len is the number of indexed tasks.
func (c *Catalog) Len() int { return len(c.entries) }

func toolID(task string) string { return Namespace + ":" + task }

func taskOf(s index.Summary) string {
	if s.Name != "" {
		return s.Name
	}
	return strings.TrimPrefix(s.ID, Namespace+":")
}

// packageTags maps each root operation to the top-level packages that
// re-export it.
func packageTags(e *engine.Engine) map[string][]string {
	lib := e.Library()
	out := map[string][]string{}
	for _, path := range lib.Packages() {
		if strings.Contains(path, ".") {
			continue
		}
		ns, _ := lib.Import(path)
		for _, name := range ns.Names() {
			out[name] = append(out[name], path)
		}
	}
	return out
}

func usage(task string, e *engine.Engine) string {
	if target, ok := e.Alias(task); ok {
		return fmt.Sprintf(`{"task": %q} resolves to %q.`, task, target)
	}
	return fmt.Sprintf(`{"expression": "...", "task": %q, "variable": "x"}`, task)
}

var inputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"expression":     map[string]any{"type": "string"},
		"task":           map[string]any{"type": "string"},
		"variable":       map[string]any{"type": "string"},
		"substitutions":  map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "number"}},
		"solveFor":       map[string]any{"type": "string"},
		"timeoutSeconds": map[string]any{"type": "number"},
		"seriesOrder":    map[string]any{"type": "integer"},
		"keywordArgs":    map[string]any{"type": "object"},
		"positionalArgs": map[string]any{"type": "array"},
	},
	"required": []any{"expression", "task"},
}

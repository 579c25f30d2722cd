package engine

import (
	"strings"

	"github.com/njchilds90/symengine/cas"
)

// resolve maps a task name to an invocable library operation. The alias
// table applies to the full name only; dotted names are tried as
// "submodule.attribute" and then as an attribute chain from the root.
func (e *Engine) resolve(task string) (*cas.Operation, bool) {
	name := strings.TrimSpace(task)
	if name == "" {
		return nil, false
	}
	if target, ok := e.cfg.aliases[name]; ok {
		name = target
	}
	if m, ok := e.cfg.lib.Root.Attr(name); ok {
		return cas.Invocable(m)
	}
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return nil, false
	}
	if mod, ok := e.cfg.lib.Import(strings.Join(parts[:len(parts)-1], ".")); ok {
		if m, ok := mod.Attr(parts[len(parts)-1]); ok {
			if op, ok := cas.Invocable(m); ok {
				return op, true
			}
		}
	}
	var obj any = e.cfg.lib.Root
	for _, part := range parts {
		next, ok := cas.Attr(obj, part)
		if !ok {
			return nil, false
		}
		obj = next
	}
	return cas.Invocable(obj)
}

package engine

import (
	"fmt"

	"github.com/njchilds90/symengine/cas"
)

// normalize renders a computed value. Notation falls back to nil, never to
// the plain text, when the value has no LaTeX rendering.
func normalize(result any, parsed cas.Expr, meta map[string]any) *Response {
	free := cas.FreeSymbols(parsed)
	if free == nil {
		free = []string{}
	}
	meta["freeSymbols"] = free
	return &Response{
		ResultText:     toString(result),
		ResultNotation: notation(result),
		Metadata:       meta,
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return x
	case cas.Expr:
		return x.String()
	case bool:
		if x {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}

func notation(v any) (out *string) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	switch x := v.(type) {
	case string:
		return &x
	case cas.Expr:
		s := x.LaTeX()
		return &s
	}
	return nil
}

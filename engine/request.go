package engine

import (
	"strings"
)

// Request defaults and bounds.
const (
	DefaultTimeoutSeconds = 2.0
	MinTimeoutSeconds     = 0.1
	MaxTimeoutSeconds     = 60.0

	DefaultSeriesOrder = 6
	MinSeriesOrder     = 1
	MaxSeriesOrder     = 50
)

// Request is one compute call.
type Request struct {
	// Expression is the input formula, e.g. "sin(x)/x".
	Expression string `json:"expression"`

	// Task names the operation: a fast-path task, a library function, a
	// dotted submodule path ("integrals.transforms.laplace_transform") or an
	// alias ("derivative").
	Task string `json:"task"`

	// Variable is the primary bound variable.
	Variable string `json:"variable,omitempty"`

	// Substitutions maps variable names to numeric values.
	Substitutions map[string]float64 `json:"substitutions,omitempty"`

	// SolveFor overrides Variable as the unknown when solving.
	SolveFor string `json:"solveFor,omitempty"`

	// TimeoutSeconds is advisory; the engine runs every task to completion.
	TimeoutSeconds *float64 `json:"timeoutSeconds,omitempty"`

	// SeriesOrder is the truncation order for series expansion.
	SeriesOrder *int `json:"seriesOrder,omitempty"`

	// KeywordArgs are passed through to the resolved operation.
	KeywordArgs map[string]any `json:"keywordArgs,omitempty"`

	// PositionalArgs, when present, select generic invocation with an
	// explicit argument list.
	PositionalArgs []any `json:"positionalArgs,omitempty"`
}

// Timeout returns the effective advisory timeout.
func (r Request) Timeout() float64 {
	if r.TimeoutSeconds == nil {
		return DefaultTimeoutSeconds
	}
	return *r.TimeoutSeconds
}

// Order returns the effective series order.
func (r Request) Order() int {
	if r.SeriesOrder == nil {
		return DefaultSeriesOrder
	}
	return *r.SeriesOrder
}

// Validate checks required fields and bounds.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.Expression) == "":
		return newError(KindInvalidRequest, nil, "expression is required")
	case strings.TrimSpace(r.Task) == "":
		return newError(KindInvalidRequest, nil, "task is required")
	}
	if t := r.Timeout(); t < MinTimeoutSeconds || t > MaxTimeoutSeconds {
		return newError(KindInvalidRequest, nil, "timeoutSeconds must be in [%g, %g], got %g", MinTimeoutSeconds, MaxTimeoutSeconds, t)
	}
	if n := r.Order(); n < MinSeriesOrder || n > MaxSeriesOrder {
		return newError(KindInvalidRequest, nil, "seriesOrder must be in [%d, %d], got %d", MinSeriesOrder, MaxSeriesOrder, n)
	}
	return nil
}

// Response is the normalized result of a compute call.
type Response struct {
	// ResultText is the plain rendering of the result.
	ResultText string `json:"resultText"`

	// ResultNotation is the LaTeX rendering, or nil when none is available.
	ResultNotation *string `json:"resultNotation"`

	// Metadata always carries "freeSymbols"; limit adds "limitPoint".
	Metadata map[string]any `json:"metadata"`
}

// BatchRequest is the envelope for a batch of compute calls.
type BatchRequest struct {
	Items []Request `json:"items"`
}

// BatchItemResult is one entry of a batch response.
type BatchItemResult struct {
	OK    bool      `json:"ok"`
	Data  *Response `json:"data,omitempty"`
	Error string    `json:"error,omitempty"`
}

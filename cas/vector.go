package cas

// ============================================================
// Vector calculus over explicit coordinate symbols
// ============================================================

// Gradient returns the column vector of partial derivatives.
func Gradient(e Expr, vars []string) *Matrix {
	out := NewMatrix(len(vars), 1)
	for i, v := range vars {
		out.set(i, 0, e.Diff(v))
	}
	return out
}

// Jacobian returns the len(fs) x len(vars) matrix of partials.
func Jacobian(fs []Expr, vars []string) *Matrix {
	out := NewMatrix(len(fs), len(vars))
	for i, f := range fs {
		for j, v := range vars {
			out.set(i, j, f.Diff(v))
		}
	}
	return out
}

func Hessian(e Expr, vars []string) *Matrix {
	n := len(vars)
	out := NewMatrix(n, n)
	for i, vi := range vars {
		di := e.Diff(vi)
		for j, vj := range vars {
			out.set(i, j, di.Diff(vj))
		}
	}
	return out
}

// Laplacian is the sum of unmixed second partials.
func Laplacian(e Expr, vars []string) Expr {
	terms := make([]Expr, len(vars))
	for i, v := range vars {
		terms[i] = e.Diff(v).Diff(v)
	}
	return AddOf(terms...)
}

func Divergence(fs []Expr, vars []string) (Expr, error) {
	if len(fs) != len(vars) {
		return nil, mathErrorf("divergence needs %d components, got %d", len(vars), len(fs))
	}
	terms := make([]Expr, len(fs))
	for i := range fs {
		terms[i] = fs[i].Diff(vars[i])
	}
	return AddOf(terms...), nil
}

// Curl returns the curl of a three-dimensional field as a column vector.
func Curl(fs []Expr, vars []string) (*Matrix, error) {
	if len(fs) != 3 || len(vars) != 3 {
		return nil, mathErrorf("curl needs a 3-component field over 3 coordinates")
	}
	d := func(i, j int) Expr { return fs[i].Diff(vars[j]) }
	return ColumnVector(
		Sub(d(2, 1), d(1, 2)),
		Sub(d(0, 2), d(2, 0)),
		Sub(d(1, 0), d(0, 1)),
	), nil
}

// components flattens a vector-like argument into its entries.
func components(e Expr) ([]Expr, bool) {
	switch v := e.(type) {
	case *Matrix:
		if v.rows == 1 || v.cols == 1 {
			return append([]Expr(nil), v.data...), true
		}
	case *List:
		return v.Items(), true
	}
	return nil, false
}

package cas

import (
	"fmt"
	"strings"
)

// ============================================================
// Matrix: symbolic matrix
// ============================================================

// Matrix is a dense rows x cols matrix stored row-major.
type Matrix struct {
	rows, cols int
	data       []Expr
}

func NewMatrix(rows, cols int) *Matrix {
	data := make([]Expr, rows*cols)
	for i := range data {
		data[i] = zero
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

// MatrixFromRows builds a matrix from equal-length rows.
func MatrixFromRows(rows [][]Expr) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, mathErrorf("mismatched dimensions: row %d has %d entries, want %d", i, len(r), cols)
		}
		copy(m.data[i*cols:], r)
	}
	return m, nil
}

// ColumnVector builds an n x 1 matrix.
func ColumnVector(entries ...Expr) *Matrix {
	m := NewMatrix(len(entries), 1)
	copy(m.data, entries)
	return m
}

func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = one
	}
	return m
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) At(row, col int) Expr {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(mathErrorf("matrix index out of range [%d,%d] for %dx%d", row, col, m.rows, m.cols))
	}
	return m.data[row*m.cols+col]
}

func (m *Matrix) set(row, col int, v Expr) { m.data[row*m.cols+col] = v }

func (m *Matrix) row(i int) []Expr { return m.data[i*m.cols : (i+1)*m.cols] }

func (m *Matrix) Equal(other Expr) bool {
	o, ok := other.(*Matrix)
	if !ok || o.rows != m.rows || o.cols != m.cols {
		return false
	}
	for i := range m.data {
		if !m.data[i].Equal(o.data[i]) {
			return false
		}
	}
	return true
}

func (m *Matrix) Subs(name string, value Expr) Expr {
	return SubsMap(m, map[string]Expr{name: value})
}

func (m *Matrix) Diff(name string) Expr {
	return mapArgs(m, func(x Expr) Expr { return x.Diff(name) })
}

func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("Matrix([")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[")
		for j, x := range m.row(i) {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(x.String())
		}
		sb.WriteString("]")
	}
	sb.WriteString("])")
	return sb.String()
}

func (m *Matrix) LaTeX() string {
	var sb strings.Builder
	sb.WriteString(`\begin{pmatrix}`)
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(` \\ `)
		}
		for j, x := range m.row(i) {
			if j > 0 {
				sb.WriteString(" & ")
			}
			sb.WriteString(x.LaTeX())
		}
	}
	sb.WriteString(`\end{pmatrix}`)
	return sb.String()
}

func (m *Matrix) add(o *Matrix) *Matrix {
	if m.rows != o.rows || m.cols != o.cols {
		panic(mathErrorf("matrix dimension mismatch: %s + %s", m.shape(), o.shape()))
	}
	out := NewMatrix(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = AddOf(m.data[i], o.data[i])
	}
	return out
}

func (m *Matrix) mul(o *Matrix) *Matrix {
	if m.cols != o.rows {
		panic(mathErrorf("matrix dimension mismatch: %s * %s", m.shape(), o.shape()))
	}
	out := NewMatrix(m.rows, o.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < o.cols; j++ {
			terms := make([]Expr, m.cols)
			for k := 0; k < m.cols; k++ {
				terms[k] = MulOf(m.At(i, k), o.At(k, j))
			}
			out.set(i, j, Expand(AddOf(terms...)))
		}
	}
	return out
}

func (m *Matrix) scale(s Expr) *Matrix {
	if isOneNumber(s) {
		return m
	}
	out := NewMatrix(m.rows, m.cols)
	for i, x := range m.data {
		out.data[i] = MulOf(s, x)
	}
	return out
}

func (m *Matrix) pow(e Expr) Expr {
	n, ok := e.(*Num)
	if !ok || !n.IsInteger() {
		panic(mathErrorf("matrix power needs an integer exponent, got %s", e))
	}
	if m.rows != m.cols {
		panic(mathErrorf("matrix power needs a square matrix, got %s", m.shape()))
	}
	k, _ := n.Int64()
	base := m
	if k < 0 {
		inv, err := m.inverse()
		if err != nil {
			panic(err)
		}
		base, k = inv, -k
	}
	out := Identity(m.rows)
	for ; k > 0; k-- {
		out = out.mul(base)
	}
	return out
}

// T returns the transpose.
func (m *Matrix) T() Expr {
	out := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.set(j, i, m.At(i, j))
		}
	}
	return out
}

func (m *Matrix) Trace() (Expr, error) {
	if m.rows != m.cols {
		return nil, mathErrorf("trace requires a square matrix, got %s", m.shape())
	}
	terms := make([]Expr, m.rows)
	for i := 0; i < m.rows; i++ {
		terms[i] = m.At(i, i)
	}
	return AddOf(terms...), nil
}

func (m *Matrix) Det() (Expr, error) {
	if m.rows != m.cols {
		return nil, mathErrorf("determinant requires a square matrix, got %s", m.shape())
	}
	if m.rows == 0 {
		return one, nil
	}
	return Expand(matDet(m.data, m.rows)), nil
}

func matDet(data []Expr, n int) Expr {
	switch n {
	case 1:
		return data[0]
	case 2:
		return Sub(MulOf(data[0], data[3]), MulOf(data[1], data[2]))
	}
	terms := make([]Expr, 0, n)
	for j := 0; j < n; j++ {
		if isZeroNumber(data[j]) {
			continue
		}
		sign := one
		if j%2 == 1 {
			sign = minusOne
		}
		terms = append(terms, MulOf(sign, data[j], matDet(minor(data, n, 0, j), n-1)))
	}
	return AddOf(terms...)
}

func minor(data []Expr, n, skipRow, skipCol int) []Expr {
	out := make([]Expr, 0, (n-1)*(n-1))
	for i := 0; i < n; i++ {
		if i == skipRow {
			continue
		}
		for j := 0; j < n; j++ {
			if j != skipCol {
				out = append(out, data[i*n+j])
			}
		}
	}
	return out
}

// Inv returns the inverse through the adjugate.
func (m *Matrix) Inv() (Expr, error) {
	inv, err := m.inverse()
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (m *Matrix) inverse() (*Matrix, error) {
	det, err := m.Det()
	if err != nil {
		return nil, err
	}
	if isZeroNumber(det) {
		return nil, mathErrorf("matrix det == 0; not invertible")
	}
	n := m.rows
	out := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sign := one
			if (i+j)%2 == 1 {
				sign = minusOne
			}
			var cof Expr = one
			if n > 1 {
				cof = MulOf(sign, matDet(minor(m.data, n, i, j), n-1))
			}
			// adjugate is the transposed cofactor matrix
			out.set(j, i, Cancel(Div(cof, det)))
		}
	}
	return out, nil
}

// Rank computes the rank by fraction-free elimination.
func (m *Matrix) Rank() int {
	r, _ := rref(m)
	return len(r)
}

// rref reduces m in place on a copy and returns the pivot columns.
func rref(m *Matrix) ([]int, *Matrix) {
	a := &Matrix{rows: m.rows, cols: m.cols, data: append([]Expr(nil), m.data...)}
	var pivots []int
	row := 0
	for col := 0; col < a.cols && row < a.rows; col++ {
		p := -1
		for i := row; i < a.rows; i++ {
			if !isZeroNumber(Cancel(a.At(i, col))) {
				p = i
				break
			}
		}
		if p < 0 {
			continue
		}
		if p != row {
			for j := 0; j < a.cols; j++ {
				x, y := a.At(row, j), a.At(p, j)
				a.set(row, j, y)
				a.set(p, j, x)
			}
		}
		piv := a.At(row, col)
		for j := 0; j < a.cols; j++ {
			a.set(row, j, Cancel(Div(a.At(row, j), piv)))
		}
		for i := 0; i < a.rows; i++ {
			if i == row {
				continue
			}
			f := a.At(i, col)
			if isZeroNumber(f) {
				continue
			}
			for j := 0; j < a.cols; j++ {
				a.set(i, j, Cancel(Sub(a.At(i, j), MulOf(f, a.At(row, j)))))
			}
		}
		pivots = append(pivots, col)
		row++
	}
	return pivots, a
}

func (m *Matrix) shape() string { return fmt.Sprintf("%dx%d", m.rows, m.cols) }

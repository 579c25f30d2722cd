// Package cas provides a deterministic symbolic math kernel for Go.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat), with Float only where the input asks for it
//   - Canonical sums and products built by the constructors themselves (AddOf, MulOf, PowOf)
//   - Stable output: plain text that the engine parser reads back, and LaTeX
//   - Every routine published by name in a namespace tree (see Library)
//
// Values are immutable. Routines report failures as errors; constructor misuse such as
// adding a matrix to a scalar panics with a *MathError, which callers at a process
// boundary are expected to recover.
package cas

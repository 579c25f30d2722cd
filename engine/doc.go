// Package engine resolves an untyped task name plus loosely typed arguments
// into a call against the cas library.
//
// # Pipeline
//
// A [Request] flows through:
//
//   - Vocabulary: the base allowlist plus one symbol per variable named by
//     the request (substitutions, variable, solveFor, identifier strings in
//     positionalArgs and, unless disabled, free identifiers of the
//     expression).
//   - [Parse]: a recursive-descent parser that evaluates the expression
//     within that vocabulary.
//   - Fast path: curated handlers for common tasks (solve, limit, series,
//     det, ...), used when no positionalArgs are given.
//   - Generic invocation: the resolver finds the operation (aliases,
//     top-level names, dotted submodule paths, attribute chains) and binds
//     it under explicit arguments or under probed calling conventions.
//   - Normalization into a [Response].
//
// # Errors
//
// Every error returned by [Engine.Compute] is an [*Error] that matches one
// sentinel with errors.Is ([ErrParse], [ErrMissingParameter], ...). Bind
// failures are retried under the next convention; computation failures
// never are.
package engine

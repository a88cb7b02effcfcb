// Package preflight provides readiness checks for the files and listener
// lualog depends on.
//
// These checks run in two contexts:
//   - `lualog serve` calls RunAll before binding. Failures of required checks
//     abort startup; an optional failure such as a log file that does not
//     exist yet is only logged, because streams pick the file up once the
//     game creates it.
//   - `lualog check` prints every result as a status line.
package preflight

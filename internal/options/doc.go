// Package options turns raw command-line values into the immutable Config
// that drives one scaffolding run.
//
// Each enumerated choice is a closed string type with its own parse
// function, so an unrecognized value is rejected here and never reaches a
// renderer or an external tool.
package options

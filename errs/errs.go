// Package errs defines the failure taxonomy shared by every pricer.
//
// Call sites wrap these sentinels with context, e.g.
//
//	fmt.Errorf("ComputeIrr: no convergence after %d iterations: %w", n, errs.ErrConvergenceFailure)
//
// so callers match with errors.Is.
package errs

import "errors"

var (
	// ErrInvalidArgument covers non-positive maturities, strikes, periods and
	// mismatched sequence lengths.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrArbitrageViolation is returned when a lattice stage's growth factor
	// falls outside [d, u].
	ErrArbitrageViolation = errors.New("arbitrage violation")

	// ErrConvergenceFailure is returned when a solver hits its iteration cap
	// or produces an out-of-range root.
	ErrConvergenceFailure = errors.New("convergence failure")

	// ErrUnsupportedStyle is returned when a pricer cannot handle the
	// requested exercise style.
	ErrUnsupportedStyle = errors.New("unsupported exercise style")

	// ErrInvalidBracket is returned by bisection when the bracket ends share sign.
	ErrInvalidBracket = errors.New("invalid bracket")
)

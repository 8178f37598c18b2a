// Package option defines option contracts and their closed-form pricers.
package option

import (
	"fmt"
	"math"

	"github.com/meenmo/qflib/errs"
)

// OptionType selects the payoff direction.
type OptionType int

const (
	Call OptionType = iota
	Put
)

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return fmt.Sprintf("OptionType(%d)", int(t))
	}
}

// ParseOptionType accepts "call"/"put" in any case, or "C"/"P".
func ParseOptionType(s string) (OptionType, error) {
	switch s {
	case "call", "Call", "CALL", "C", "c":
		return Call, nil
	case "put", "Put", "PUT", "P", "p":
		return Put, nil
	}
	return 0, fmt.Errorf("ParseOptionType: unknown option type %q: %w", s, errs.ErrInvalidArgument)
}

// ExerciseStyle selects when the holder may exercise.
type ExerciseStyle int

const (
	European ExerciseStyle = iota
	American
	// Asian is reserved; no pricer implements it.
	Asian
)

func (s ExerciseStyle) String() string {
	switch s {
	case European:
		return "european"
	case American:
		return "american"
	case Asian:
		return "asian"
	default:
		return fmt.Sprintf("ExerciseStyle(%d)", int(s))
	}
}

// ParseExerciseStyle accepts "european", "american" or "asian" (any case of
// the first letter).
func ParseExerciseStyle(s string) (ExerciseStyle, error) {
	switch s {
	case "european", "European", "EUROPEAN", "":
		return European, nil
	case "american", "American", "AMERICAN":
		return American, nil
	case "asian", "Asian", "ASIAN":
		return Asian, nil
	}
	return 0, fmt.Errorf("ParseExerciseStyle: unknown style %q: %w", s, errs.ErrInvalidArgument)
}

// Underlying is a market snapshot of the security an option is written on.
//
// YieldRate is the continuous dividend (or foreign) yield as a decimal.
type Underlying struct {
	ID         int
	Symbol     string
	Price      float64
	Volatility float64
	YieldRate  float64
}

// Option is a vanilla option contract. It carries inputs only; pricers
// return their output as a Result.
type Option struct {
	Type           OptionType
	Style          ExerciseStyle
	Strike         float64
	TimeToMaturity float64
	Underlying     Underlying
}

// Result holds a price and its sensitivities. Theta is per year, Vega and
// Rho are per unit (not per percentage point).
type Result struct {
	Price float64
	Delta float64
	Gamma float64
	Vega  float64
	Theta float64
	Rho   float64
	// Charm is -∂Delta/∂t, the delta decay.
	Charm float64
}

// Validate checks strike > 0, maturity > 0, spot > 0 and volatility >= 0.
func (o Option) Validate() error {
	switch {
	case !(o.Strike > 0):
		return fmt.Errorf("option: strike must be positive, got %g: %w", o.Strike, errs.ErrInvalidArgument)
	case !(o.TimeToMaturity > 0):
		return fmt.Errorf("option: time to maturity must be positive, got %g: %w", o.TimeToMaturity, errs.ErrInvalidArgument)
	case !(o.Underlying.Price > 0):
		return fmt.Errorf("option: underlying price must be positive, got %g: %w", o.Underlying.Price, errs.ErrInvalidArgument)
	case !(o.Underlying.Volatility >= 0):
		return fmt.Errorf("option: volatility must not be negative, got %g: %w", o.Underlying.Volatility, errs.ErrInvalidArgument)
	}
	return nil
}

// Payoff is the exercise value at underlying price s.
func (o Option) Payoff(s float64) float64 {
	if o.Type == Put {
		return math.Max(o.Strike-s, 0)
	}
	return math.Max(s-o.Strike, 0)
}

// Intrinsic is the payoff at the current underlying price.
func (o Option) Intrinsic() float64 {
	return o.Payoff(o.Underlying.Price)
}

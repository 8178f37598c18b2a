// Package lattice prices options on a recombining binomial tree.
//
// The tree is stored as one contiguous arena: node (stage, index) lives at
// stage*(stage+1)/2 + index. Stage 0 is the root, stage n holds the n+1
// leaves, and index 0 is the node reached by up-moves only.
package lattice

import (
	"fmt"
	"math"

	"github.com/meenmo/qflib/config"
	"github.com/meenmo/qflib/errs"
	"github.com/meenmo/qflib/option"
)

// Input describes one lattice pricing run.
//
// Rates, Volatilities and Yields hold one value per stage. A single value is
// broadcast to every stage. Empty Volatilities or Yields fall back to the
// underlying's scalar values; Rates must be given. Stages == 0 selects
// config.LatticeStages.
type Input struct {
	Option       option.Option
	Stages       int
	Rates        []float64
	Volatilities []float64
	Yields       []float64
}

// Node is a read-only view of one lattice state.
//
// Up, Down, ProbUp and ProbDown describe transitions out of Node's stage and
// are zero at the leaves. Derived is the option value after the most recent
// backward induction.
type Node struct {
	Stage      int
	Index      int
	Underlying float64
	Up         float64
	Down       float64
	ProbUp     float64
	ProbDown   float64
	Derived    float64
}

// stage holds the transition parameters out of one stage.
type stage struct {
	up, down float64
	probUp   float64
	disc     float64
}

// Lattice is a built tree. It is not safe for concurrent Induct calls.
type Lattice struct {
	n          int
	dt         float64
	underlying []float64
	derived    []float64
	stages     []stage
}

// Flat returns a sequence of n copies of v.
func Flat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func offset(stage, index int) int {
	return stage*(stage+1)/2 + index
}

// Build allocates the arena and runs the forward pass.
//
// Each stage s uses u = e^(σ_s√Δt), d = 1/u and
// p = (e^((r_s−q_s)Δt) − d)/(u − d). A stage whose growth factor lies
// outside [d, u], or whose u equals d, fails with ErrArbitrageViolation.
func Build(in Input) (*Lattice, error) {
	opt := in.Option
	if err := opt.Validate(); err != nil {
		return nil, fmt.Errorf("lattice.Build: %w", err)
	}

	n := in.Stages
	if n == 0 {
		n = config.GetConfig().LatticeStages
	}
	if n < 0 {
		return nil, fmt.Errorf("lattice.Build: stages must be positive, got %d: %w", n, errs.ErrInvalidArgument)
	}

	if len(in.Rates) == 0 {
		return nil, fmt.Errorf("lattice.Build: rates are required: %w", errs.ErrInvalidArgument)
	}
	rates, err := resolve("rates", in.Rates, n)
	if err != nil {
		return nil, err
	}
	vols, err := resolve("volatilities", orScalar(in.Volatilities, opt.Underlying.Volatility), n)
	if err != nil {
		return nil, err
	}
	yields, err := resolve("yields", orScalar(in.Yields, opt.Underlying.YieldRate), n)
	if err != nil {
		return nil, err
	}

	l := &Lattice{
		n:          n,
		dt:         opt.TimeToMaturity / float64(n),
		underlying: make([]float64, offset(n+1, 0)),
		derived:    make([]float64, offset(n+1, 0)),
		stages:     make([]stage, n),
	}

	sqrtDt := math.Sqrt(l.dt)
	for s := 0; s < n; s++ {
		switch {
		case !finite(rates[s]) || !finite(yields[s]):
			return nil, fmt.Errorf("lattice.Build: stage %d rate %g or yield %g is not finite: %w", s, rates[s], yields[s], errs.ErrInvalidArgument)
		case !finite(vols[s]) || vols[s] < 0:
			return nil, fmt.Errorf("lattice.Build: stage %d volatility %g must be finite and non-negative: %w", s, vols[s], errs.ErrInvalidArgument)
		}
		u := math.Exp(vols[s] * sqrtDt)
		d := 1 / u
		growth := math.Exp((rates[s] - yields[s]) * l.dt)
		if !(u > d) || !(growth >= d && growth <= u) {
			return nil, fmt.Errorf("lattice.Build: stage %d growth %g outside [%g, %g]: %w", s, growth, d, u, errs.ErrArbitrageViolation)
		}
		l.stages[s] = stage{
			up:     u,
			down:   d,
			probUp: (growth - d) / (u - d),
			disc:   math.Exp(-rates[s] * l.dt),
		}
	}

	// node(s+1,0) = node(s,0)·u and node(s+1,i) = node(s+1,i−1)·d/u, which
	// recombines to S₀·u^(s−i)·d^i under constant volatility.
	l.underlying[0] = opt.Underlying.Price
	for s := 0; s < n; s++ {
		st := l.stages[s]
		next := offset(s+1, 0)
		l.underlying[next] = l.underlying[offset(s, 0)] * st.up
		ratio := st.down / st.up
		for i := 1; i <= s+1; i++ {
			l.underlying[next+i] = l.underlying[next+i-1] * ratio
		}
	}
	return l, nil
}

// Stages returns n.
func (l *Lattice) Stages() int {
	return l.n
}

// Dt returns the stage length in years.
func (l *Lattice) Dt() float64 {
	return l.dt
}

// Node returns the state at (stage, index). It panics when out of range.
func (l *Lattice) Node(stage, index int) Node {
	if stage < 0 || stage > l.n || index < 0 || index > stage {
		panic(fmt.Sprintf("lattice: node (%d,%d) out of range for %d stages", stage, index, l.n))
	}
	k := offset(stage, index)
	nd := Node{
		Stage:      stage,
		Index:      index,
		Underlying: l.underlying[k],
		Derived:    l.derived[k],
	}
	if stage < l.n {
		st := l.stages[stage]
		nd.Up, nd.Down = st.up, st.down
		nd.ProbUp, nd.ProbDown = st.probUp, 1-st.probUp
	}
	return nd
}

// Induct values opt on the lattice by backward induction and returns the
// root value. Leaves take the intrinsic payoff; American style takes the
// larger of intrinsic and continuation value at every node.
//
// Only Type, Style and Strike of opt are read; the lattice geometry comes
// from Build. Calling Induct again overwrites the derived values.
func (l *Lattice) Induct(opt option.Option) (float64, error) {
	if opt.Style == option.Asian {
		return 0, fmt.Errorf("lattice.Induct: %s style: %w", opt.Style, errs.ErrUnsupportedStyle)
	}
	american := opt.Style == option.American

	leaves := offset(l.n, 0)
	for i := 0; i <= l.n; i++ {
		l.derived[leaves+i] = opt.Payoff(l.underlying[leaves+i])
	}

	for s := l.n - 1; s >= 0; s-- {
		st := l.stages[s]
		cur, next := offset(s, 0), offset(s+1, 0)
		for i := 0; i <= s; i++ {
			v := st.disc * (st.probUp*l.derived[next+i] + (1-st.probUp)*l.derived[next+i+1])
			if american {
				v = math.Max(opt.Payoff(l.underlying[cur+i]), v)
			}
			l.derived[cur+i] = v
		}
	}
	return l.derived[0], nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func orScalar(seq []float64, scalar float64) []float64 {
	if len(seq) == 0 {
		return []float64{scalar}
	}
	return seq
}

func resolve(name string, seq []float64, n int) ([]float64, error) {
	switch len(seq) {
	case 1:
		return Flat(seq[0], n), nil
	case n:
		return seq, nil
	default:
		return nil, fmt.Errorf("lattice.Build: %s has %d values, want 1 or %d: %w", name, len(seq), n, errs.ErrInvalidArgument)
	}
}

package lattice

// Result is the output of Price.
//
// Delta, Gamma and Theta are read off the tree's first two stages and are
// zero when the lattice has fewer than two stages.
type Result struct {
	Price  float64
	Delta  float64
	Gamma  float64
	Theta  float64
	Stages int
}

// Price builds a lattice for in, values in.Option on it and discards it.
func Price(in Input) (Result, error) {
	l, err := Build(in)
	if err != nil {
		return Result{}, err
	}
	price, err := l.Induct(in.Option)
	if err != nil {
		return Result{}, err
	}

	res := Result{Price: price, Stages: l.n}
	if l.n >= 2 {
		res.Delta, res.Gamma, res.Theta = l.treeGreeks()
	}
	return res, nil
}

// treeGreeks estimates sensitivities from the derived values at stages 1
// and 2 of the most recent induction.
func (l *Lattice) treeGreeks() (delta, gamma, theta float64) {
	s := func(stage, index int) float64 { return l.underlying[offset(stage, index)] }
	v := func(stage, index int) float64 { return l.derived[offset(stage, index)] }

	delta = (v(1, 0) - v(1, 1)) / (s(1, 0) - s(1, 1))

	upper := (v(2, 0) - v(2, 1)) / (s(2, 0) - s(2, 1))
	lower := (v(2, 1) - v(2, 2)) / (s(2, 1) - s(2, 2))
	gamma = (upper - lower) / ((s(2, 0) - s(2, 2)) / 2)

	theta = (v(2, 1) - v(0, 0)) / (2 * l.dt)
	return delta, gamma, theta
}

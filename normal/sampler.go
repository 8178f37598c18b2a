package normal

import "math"

// Source yields uniform variates in [0, 1). *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	Float64() float64
}

// Sampler draws standard normal variates with the Box-Muller transform.
//
// Each call consumes two uniforms and returns one variate; no spare is
// cached, so the output depends only on the source's state.
type Sampler struct {
	src Source
}

// NewSampler wraps src. The caller owns src and its seed.
func NewSampler(src Source) *Sampler {
	return &Sampler{src: src}
}

// Next returns one standard normal variate.
func (s *Sampler) Next() float64 {
	// 1 - U maps [0,1) onto (0,1] so the log stays finite.
	u1 := 1.0 - s.src.Float64()
	u2 := s.src.Float64()
	return math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Fill overwrites dst with independent standard normal variates.
func (s *Sampler) Fill(dst []float64) {
	for i := range dst {
		dst[i] = s.Next()
	}
}

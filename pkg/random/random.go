package random

import "math/rand"

// Rand is the subset of math/rand used by applicant generation and the
// borrower-payment simulation. Injecting it keeps stochastic paths reproducible.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewSeeded returns a Rand backed by math/rand with a fixed seed.
func NewSeeded(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

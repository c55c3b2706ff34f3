package optimize

import "math"

// Objective is a function to minimize over a parameter vector.
type Objective func(x []float64) float64

// Bounds is a per-dimension box constraint.
type Bounds struct {
	Lo []float64
	Hi []float64
}

// Clamp returns x with every coordinate clamped into the box.
func (b Bounds) Clamp(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = math.Min(math.Max(x[i], b.Lo[i]), b.Hi[i])
	}
	return out
}

const (
	// searchStepFraction sets the initial probe step as a fraction of each
	// dimension's box width.
	searchStepFraction = 0.25

	// searchTolerance stops the search once every probe step shrinks below it.
	searchTolerance = 1e-6

	searchMaxIterations = 1000
)

// MinimizeBox runs a derivative-free compass pattern search inside a box.
// From the current point it probes ± one step along each axis (clamped to
// the box), moves to the best strictly-improving neighbor, and halves the
// steps when no probe improves. Deterministic, never leaves the box, and
// never returns a point worse than its start.
func MinimizeBox(f Objective, start []float64, b Bounds) (x []float64, fx float64) {
	x = b.Clamp(start)
	fx = f(x)

	steps := make([]float64, len(x))
	for i := range steps {
		steps[i] = (b.Hi[i] - b.Lo[i]) * searchStepFraction
		if steps[i] == 0 {
			steps[i] = searchTolerance
		}
	}

	for iter := 0; iter < searchMaxIterations; iter++ {
		bestX, bestF := x, fx

		for i := range x {
			for _, dir := range []float64{1, -1} {
				probe := make([]float64, len(x))
				copy(probe, x)
				probe[i] += dir * steps[i]
				probe = b.Clamp(probe)

				if pf := f(probe); pf < bestF {
					bestX, bestF = probe, pf
				}
			}
		}

		if bestF < fx {
			x, fx = bestX, bestF
			continue
		}

		// No improving neighbor: refine.
		maxStep := 0.0
		for i := range steps {
			steps[i] /= 2
			maxStep = math.Max(maxStep, steps[i])
		}
		if maxStep < searchTolerance {
			break
		}
	}

	return x, fx
}

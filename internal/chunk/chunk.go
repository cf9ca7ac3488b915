// Package chunk builds the sample time grid and slices it into the growing
// prefixes that become animation frames.
package chunk

import "gonum.org/v1/gonum/floats"

// Grid returns count evenly spaced times from start to end inclusive.
// Zero or negative counts give an empty grid and a count of one gives
// just start. The grid is not validated: end <= start yields a
// non-increasing grid that the integrator rejects.
func Grid(start, end float64, count int) []float64 {
	switch {
	case count <= 0:
		return []float64{}
	case count == 1:
		return []float64{start}
	}
	grid := floats.Span(make([]float64, count), start, end)
	grid[count-1] = end
	return grid
}

// Lengths returns the prefix lengths min(1+i*step, n) for i = 0, 1, ...
// ending with n exactly once. step is clamped to at least 1.
func Lengths(n, step int) []int {
	if n <= 0 {
		return []int{}
	}
	if step < 1 {
		step = 1
	}

	lengths := make([]int, 0, (n-1)/step+2)
	for l := 1; ; l += step {
		if l >= n {
			lengths = append(lengths, n)
			return lengths
		}
		lengths = append(lengths, l)
	}
}

// Prefixes slices times into growing prefixes, one per entry of
// Lengths(len(times), step). The prefixes share the backing array of
// times and must not be modified.
func Prefixes(times []float64, step int) [][]float64 {
	lengths := Lengths(len(times), step)
	chunks := make([][]float64, len(lengths))
	for i, l := range lengths {
		chunks[i] = times[:l:l]
	}
	return chunks
}

package assign

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// minCostMatching solves the minimum-cost bipartite assignment for the given
// cost matrix using the Kuhn-Munkres algorithm with row/column potentials.
// It requires rows <= cols and returns, for each row, the matched column.
//
// Ties are broken by column iteration order: comparisons are strict, so the
// lowest-index column always wins. This keeps the result deterministic under
// identical floating-point inputs.
func minCostMatching(cost *mat.Dense) []int {
	n, m := cost.Dims()
	// 1-based potentials and matching, the classic formulation
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1)   // p[j] = row matched to column j, 0 if free
	way := make([]int, m+1) // predecessor column on the alternating path

	minv := make([]float64, m+1)
	used := make([]bool, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	match := make([]int, n)
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			match[p[j]-1] = j - 1
		}
	}
	return match
}

// solve matches min(rows, cols) pairs optimally. When rows outnumber columns
// the matrix is solved transposed and the mapping inverted; unmatched rows
// are reported as -1.
func solve(cost *mat.Dense) []int {
	n, m := cost.Dims()
	if n <= m {
		return minCostMatching(cost)
	}
	t := mat.DenseCopyOf(cost.T())
	colMatch := minCostMatching(t)
	match := make([]int, n)
	for i := range match {
		match[i] = -1
	}
	for j, i := range colMatch {
		match[i] = j
	}
	return match
}

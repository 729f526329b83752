package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolveAssignment_KnownOptimum(t *testing.T) {
	cost := [][]float64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}

	// Optimal matching: (0,1)+(1,0)+(2,2) = 1+2+2 = 5
	match := solveAssignment(cost)

	assert.Equal(t, []int{1, 0, 2}, match)
}

func TestSolveAssignment_Identity(t *testing.T) {
	cost := [][]float64{
		{0, 9, 9},
		{9, 0, 9},
		{9, 9, 0},
	}

	assert.Equal(t, []int{0, 1, 2}, solveAssignment(cost))
}

func TestSolveAssignment_IsPermutation(t *testing.T) {
	cost := [][]float64{
		{7, 5, 11, 8},
		{5, 4, 1, 6},
		{9, 3, 2, 1},
		{1, 6, 8, 4},
	}

	match := solveAssignment(cost)

	seen := make(map[int]bool)
	for _, j := range match {
		assert.False(t, seen[j], "column %d matched twice", j)
		seen[j] = true
	}
	assert.Len(t, seen, 4)
}

func TestSolveAssignment_TotalIsMinimal(t *testing.T) {
	cost := [][]float64{
		{7, 5, 11, 8},
		{5, 4, 1, 6},
		{9, 3, 2, 1},
		{1, 6, 8, 4},
	}

	match := solveAssignment(cost)
	total := 0.0
	for i, j := range match {
		total += cost[i][j]
	}

	// Verify against the brute-force optimum over all 24 permutations
	best := bruteForce(cost)
	assert.InDelta(t, best, total, 1e-9)
}

func TestSolveAssignment_Deterministic(t *testing.T) {
	// All-ties matrix: any permutation is optimal, the solver must still
	// produce the same one every run.
	cost := [][]float64{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	}

	first := solveAssignment(cost)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, solveAssignment(cost))
	}
}

func TestSolveAssignment_Empty(t *testing.T) {
	assert.Nil(t, solveAssignment(nil))
}

func bruteForce(cost [][]float64) float64 {
	n := len(cost)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	best := permTotal(cost, perm)
	var recurse func(k int)
	recurse = func(k int) {
		if k == n {
			if total := permTotal(cost, perm); total < best {
				best = total
			}
			return
		}
		for i := k; i < n; i++ {
			perm[k], perm[i] = perm[i], perm[k]
			recurse(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	recurse(0)
	return best
}

func permTotal(cost [][]float64, perm []int) float64 {
	total := 0.0
	for i, j := range perm {
		total += cost[i][j]
	}
	return total
}

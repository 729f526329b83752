package matching

import "math"

// solveAssignment computes a minimum-weight perfect matching on a square
// cost matrix using the Kuhn-Munkres algorithm with dual potentials and
// augmenting paths, O(n^3). It returns, for each row, the column it is
// matched to.
//
// The scan order over columns is fixed and ties are resolved by strict
// improvement only, so identical inputs always produce identical matchings.
func solveAssignment(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}

	// 1-based potentials and matching, index 0 is the virtual root column.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	rowOf := make([]int, n+1) // rowOf[j]: row matched to column j, 0 = free
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		rowOf[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		// Grow the alternating tree until a free column is reached.
		for {
			used[j0] = true
			i0 := rowOf[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[rowOf[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if rowOf[j0] == 0 {
				break
			}
		}

		// Unwind the augmenting path.
		for j0 != 0 {
			j1 := way[j0]
			rowOf[j0] = rowOf[j1]
			j0 = j1
		}
	}

	result := make([]int, n)
	for j := 1; j <= n; j++ {
		result[rowOf[j]-1] = j - 1
	}
	return result
}

package matching

import (
	"math"

	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
)

// SentinelCost marks padded or infeasible cells in the square matrix.
// Realizable costs are work-hour magnitudes and sit far below it, so any
// matching that lands on a sentinel cell is detectable afterwards.
const SentinelCost = 1e6

// Pair is one (courier, order) match selected by the engine, together with
// the cost cell and the work estimate that produced it.
type Pair struct {
	Courier        *courier.Courier
	Order          *order.Order
	Cost           float64
	EstimatedHours float64
}

// AssignmentEngine composes the cost calculator with the rectangular
// minimum-weight bipartite matching. One engine instance serves the whole
// daemon; per-window state (omega) is passed into AssignBatch.
type AssignmentEngine struct {
	estimator *dispatch.WorkEstimator
}

func NewAssignmentEngine(estimator *dispatch.WorkEstimator) *AssignmentEngine {
	return &AssignmentEngine{estimator: estimator}
}

// AssignBatch matches couriers to orders at the given omega. Either side
// empty yields an empty result. Each courier receives at most one order and
// each order at most one courier; the emitted set is cost-optimal over the
// feasible cells.
func (e *AssignmentEngine) AssignBatch(couriers []*courier.Courier, orders []*order.Order, omega float64) []Pair {
	if len(couriers) == 0 || len(orders) == 0 {
		return nil
	}

	calculator := NewCostCalculator(e.estimator, omega)
	base := calculator.CostMatrix(couriers, orders)

	m := len(couriers)
	k := len(orders)
	n := m
	if k > n {
		n = k
	}

	// Pad to square; sentinel for padding and for degenerate cells.
	padded := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			row[j] = SentinelCost
		}
		if i < m {
			for j := 0; j < k; j++ {
				c := base[i][j]
				if !math.IsNaN(c) && c < SentinelCost {
					row[j] = c
				}
			}
		}
		padded[i] = row
	}

	matchedCol := solveAssignment(padded)

	pairs := make([]Pair, 0, min(m, k))
	for i := 0; i < m; i++ {
		j := matchedCol[i]
		if j >= k {
			continue
		}
		if padded[i][j] >= SentinelCost {
			// Degenerate cell: the order stays pending for the next window.
			continue
		}
		pairs = append(pairs, Pair{
			Courier:        couriers[i],
			Order:          orders[j],
			Cost:           padded[i][j],
			EstimatedHours: calculator.EstimateHours(couriers[i], orders[j]),
		})
	}
	return pairs
}

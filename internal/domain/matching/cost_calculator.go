package matching

import (
	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
)

// CostCalculator builds the guarantee-aware cost matrix for one batch window.
//
// For courier i with cumulative work W and active hours A, guaranteed hours
// G = omega * A, and estimated work w for order j:
//
//	cost = w                      when G <= W (guarantee already covered)
//	cost = max(W + w - G, 0)      when G > W  (cost discounted by the shortfall)
//
// Assignments that keep W + w below the guarantee cost zero, so the solver
// strictly prefers routing work to under-guarantee couriers.
type CostCalculator struct {
	estimator *dispatch.WorkEstimator
	omega     float64
}

// NewCostCalculator captures the window's omega and the work estimator.
func NewCostCalculator(estimator *dispatch.WorkEstimator, omega float64) *CostCalculator {
	return &CostCalculator{estimator: estimator, omega: omega}
}

// Omega returns the guarantee ratio this calculator was built with.
func (c *CostCalculator) Omega() float64 {
	return c.omega
}

// EstimateHours exposes the underlying work estimate for a single pair.
func (c *CostCalculator) EstimateHours(co *courier.Courier, o *order.Order) float64 {
	return c.estimator.EstimateHours(co, o)
}

// CostMatrix returns the n_couriers x n_orders matrix of assignment costs.
// Every entry is finite and non-negative.
func (c *CostCalculator) CostMatrix(couriers []*courier.Courier, orders []*order.Order) [][]float64 {
	matrix := make([][]float64, len(couriers))
	for i, co := range couriers {
		row := make([]float64, len(orders))
		for j, o := range orders {
			row[j] = c.PairCost(co, o)
		}
		matrix[i] = row
	}
	return matrix
}

// PairCost applies the guarantee-aware rule to a single (courier, order) pair.
func (c *CostCalculator) PairCost(co *courier.Courier, o *order.Order) float64 {
	w := c.estimator.EstimateHours(co, o)
	work := co.WorkHours()
	guaranteed := co.GuaranteedHours(c.omega)

	if guaranteed <= work {
		return w
	}
	cost := work + w - guaranteed
	if cost < 0 {
		return 0
	}
	return cost
}

package spacebound

// Process-wide optimizer built from DefaultConfig (optional convenience).
// It holds no mutable state, so sharing it needs no coordination.
var defaultOptimizer = NewOptimizer(DefaultConfig())

// Default returns the shared optimizer.
func Default() *Optimizer {
	return defaultOptimizer
}

// Optimize runs the shared optimizer.
func Optimize(dataSize int, metrics MetricSample) (Result, error) {
	return defaultOptimizer.Optimize(dataSize, metrics)
}

// Plan runs the shared optimizer's batch planner.
func Plan(totalItems int, metrics MetricSample) (BatchPlan, error) {
	return defaultOptimizer.Plan(totalItems, metrics)
}

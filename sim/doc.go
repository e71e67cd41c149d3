// Package sim generates synthetic Ornstein-Uhlenbeck (OU) sample paths and
// packages them into datasets for continuous-time model training.
//
// # Reading Guide
//
// Start with these files:
//   - simulate.go: the Euler–Maruyama path simulator (Simulate)
//   - dataset.go: the dataset assembler (BuildDataset)
//   - rng.go: deterministic per-sample random streams (PartitionedRNG)
//
// # Architecture
//
// The sim package owns parameters, simulation and assembly; supporting code
// lives in sub-packages:
//   - sim/tensor/: the 3-D array returned to callers, with gonum matrix views
//   - sim/spline/: Hermite cubic coefficients with backward differences, and
//     a Spline evaluator
//   - sim/summary/: per-step empirical moments compared to the analytic OU
//     moments (Moments)
//
// # Randomness
//
// Simulate takes an explicit rand.Source. A nil source falls back to the
// process-wide generator, which keeps calls independent but not
// reproducible. Reproducible datasets pass a PartitionedRNG to BuildDataset;
// each sample then owns its stream, so samples can be simulated in parallel
// without changing the output.
package sim

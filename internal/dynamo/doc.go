// Package dynamo provides the shared primitives used across the simulation:
//
//   - domain errors ([ErrInvalidBody], [ErrInvalidState], ...) and [SimulationError]
//   - scalar helpers ([Clamp], [IsFinite])
//   - seeded pseudo-random helpers over *rand.Rand ([NewRand], [RandomInt], [RandomRange])
//
// Nothing in this package holds global mutable state. Randomness is always
// drawn from a caller-owned generator so runs can be replayed from a seed.
package dynamo

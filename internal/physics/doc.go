// Package physics implements the rigid-disk engine: forces, integration,
// wall impulses and pairwise collisions.
//
// A tick is driven from outside the package:
//
//	for _, d := range disks {
//	    d.Update(params, dt)
//	}
//	physics.ResolveAll(disks)
//
// [Disk.Update] applies the force model (gravity, quadratic drag, Magnus lift
// with its energy correction, rotational drag) with one explicit Euler step,
// integrates position and rotation, then clamps the disk into the arena and
// resolves any wall contact. [ResolvePair] handles one overlapping pair.
//
// # Coordinates
//
// Screen coordinates: x grows right, y grows down, gravity is +y. Wall
// normals point inward, from the wall into the arena (see [Wall.Normal]).
//
// # Thread Safety
//
// Nothing here locks. [Params] and the disks must only be touched by the
// goroutine running the tick.
package physics

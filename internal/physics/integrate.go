package physics

// Update advances the disk by dt with one explicit Euler step and resolves
// contact with the arena walls. It returns the number of wall impulses applied.
//
// A held disk is not integrated, but it is still kept inside the arena.
func (d *Disk) Update(p *Params, dt float64) int {
	if !d.Held {
		d.applyForce(GravityForce(d, p), dt)
		d.applyDrag(p, dt)
		d.applyMagnus(p, dt)
		d.applyRotationalDrag(p, dt)

		d.X += d.VX * dt
		d.Y += d.VY * dt
		d.Rotation += d.AngularVelocity * dt
	}
	return d.constrain(p)
}

// constrain checks each axis independently, so a corner can produce two
// wall resolutions in one tick.
func (d *Disk) constrain(p *Params) int {
	hits := 0

	if d.X-d.radius < 0 {
		d.X = d.radius
		hits += d.hitWall(WallLeft, p)
	} else if d.X+d.radius > p.Width {
		d.X = p.Width - d.radius
		hits += d.hitWall(WallRight, p)
	}

	if d.Y-d.radius < 0 {
		d.Y = d.radius
		hits += d.hitWall(WallTop, p)
	} else if d.Y+d.radius > p.Height {
		d.Y = p.Height - d.radius
		hits += d.hitWall(WallBottom, p)
	}

	return hits
}

// hitWall skips the impulse for held disks: the owner controls their velocity.
func (d *Disk) hitWall(w Wall, p *Params) int {
	if d.Held {
		return 0
	}
	if ResolveWall(d, w, p) {
		return 1
	}
	return 0
}

package hologram

// Location is a world position with an orientation.
type Location struct {
	X, Y, Z    float64
	Yaw, Pitch float32
}

func Loc(x, y, z float64) Location {
	return Location{X: x, Y: y, Z: z}
}

func (l Location) Add(dx, dy, dz float64) Location {
	l.X += dx
	l.Y += dy
	l.Z += dz
	return l
}

func (l Location) DistanceSquared(o Location) float64 {
	dx, dy, dz := l.X-o.X, l.Y-o.Y, l.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

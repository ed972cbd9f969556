package math32

// Vector3i is an integer grid coordinate.
type Vector3i struct {
	X int32
	Y int32
	Z int32
}

func (v Vector3i) Add(other Vector3i) Vector3i {
	return Vector3i{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Shr shifts every axis right, mapping a grid coordinate to the coarser grid k levels up.
func (v Vector3i) Shr(k uint) Vector3i {
	return Vector3i{v.X >> k, v.Y >> k, v.Z >> k}
}

// InRange reports whether every axis lies in [0, size).
func (v Vector3i) InRange(size int32) bool {
	return v.X >= 0 && v.X < size &&
		v.Y >= 0 && v.Y < size &&
		v.Z >= 0 && v.Z < size
}

// Get returns the value at the given axis index.
func (v Vector3i) Get(i int) int32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	return 0
}

// Set returns a copy with the given axis replaced.
func (v Vector3i) Set(i int, value int32) Vector3i {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	case 2:
		v.Z = value
	}
	return v
}

package math32

import "math"

// MaxFloat32 is the largest finite float32.
const MaxFloat32 = math.MaxFloat32

// Inf returns positive infinity as a float32.
func Inf() float32 {
	return float32(math.Inf(1))
}

// Min returns the minimum of two values.
func Min[T float32 | int32](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two values.
func Max[T float32 | int32](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Abs returns the absolute value of a float32.
func Abs(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}

// FloorToInt returns the floor of a float32 as an integer.
func FloorToInt(a float32) int32 {
	return int32(math.Floor(float64(a)))
}

// Clamp limits value to [lo, hi].
func Clamp[T float32 | int32](value, lo, hi T) T {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Sqrt returns the square root of a float32.
func Sqrt(a float32) float32 {
	return float32(math.Sqrt(float64(a)))
}

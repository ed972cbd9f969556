package query

import "github.com/o0olele/svon-go/math32"

// SmoothChaikin applies Chaikin corner cutting. Each pass replaces every
// interior vertex by the quarter point of its outgoing segment and inserts
// the three-quarter point after it, so n points become 2n-1. No point is
// dropped from the tail after a pass, so both endpoints survive every pass
// and the snapped goal is never lost. Zero iterations returns points
// unchanged.
func SmoothChaikin(points []math32.Vector3, iterations int) []math32.Vector3 {
	for i := 0; i < iterations; i++ {
		points = chaikinPass(points)
	}
	return points
}

func chaikinPass(points []math32.Vector3) []math32.Vector3 {
	if len(points) < 2 {
		return points
	}

	out := make([]math32.Vector3, 0, 2*len(points)-1)
	for j := 0; j < len(points)-1; j++ {
		start, end := points[j], points[j+1]
		if j == 0 {
			out = append(out, start)
		} else {
			out = append(out, start.Lerp(end, 0.25))
		}
		out = append(out, start.Lerp(end, 0.75))
	}
	return append(out, points[len(points)-1])
}

package types

// A ray is the half-line origin + t*dir for t >= 0. Rays are treated as
// immutable once constructed; dir is not required to be unit length.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Create a new ray.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// Get the point at parametric distance t along the ray.
func (r Ray) PointAt(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

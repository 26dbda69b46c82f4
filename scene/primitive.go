package scene

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/KasumiL5x/rs-raytracer/types"
)

// The result of a successful ray/primitive intersection. Records are
// transient; intersection queries fill one per hit and nothing retains
// them across rays.
type HitRecord struct {
	// Intersection point in world space.
	Point types.Vec3

	// Unit surface normal, always oriented against the incoming ray.
	Normal types.Vec3

	// Parametric distance along the ray.
	T float32

	// True when the ray hit the primitive from outside.
	FrontFace bool

	// The material at the hit point.
	Material *Material
}

// Orient the normal against the incoming ray. outward must be the unit
// outward-facing surface normal.
func (h *HitRecord) setFaceNormal(ray types.Ray, outward types.Vec3) {
	h.FrontFace = ray.Dir.Dot(outward) < 0
	if h.FrontFace {
		h.Normal = outward
	} else {
		h.Normal = outward.Neg()
	}
}

// Primitive is implemented by anything a ray can intersect. Only roots
// within (tMin, tMax) count as hits. The aggregate Scene satisfies the
// same interface, which leaves room for acceleration structures without
// touching callers.
type Primitive interface {
	Hit(ray types.Ray, tMin, tMax float32) (HitRecord, bool)
}

// A sphere primitive.
type Sphere struct {
	Center   types.Vec3
	Radius   float32
	Material *Material
}

// Create a new sphere primitive.
func NewSphere(center types.Vec3, radius float32, material *Material) (*Sphere, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("scene: sphere radius %g must be > 0", radius)
	}
	if material == nil {
		return nil, fmt.Errorf("scene: no material assigned to sphere")
	}
	return &Sphere{Center: center, Radius: radius, Material: material}, nil
}

// Intersect the ray with the sphere by solving the quadratic formed by
// substituting the ray equation into ||P - center||^2 = r^2. The smaller
// root wins unless it falls outside (tMin, tMax), in which case the
// larger root is tested.
func (s *Sphere) Hit(ray types.Ray, tMin, tMax float32) (HitRecord, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Dir.LenSqr()
	halfB := oc.Dot(ray.Dir)
	c := oc.LenSqr() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}
	sqrtD := math32.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return HitRecord{}, false
		}
	}

	var hit HitRecord
	hit.T = root
	hit.Point = ray.PointAt(root)
	hit.Material = s.Material
	hit.setFaceNormal(ray, hit.Point.Sub(s.Center).Div(s.Radius))
	return hit, true
}

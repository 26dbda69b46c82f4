package scene

import (
	"fmt"

	"github.com/KasumiL5x/rs-raytracer/types"
)

// A scene aggregates the primitives visible to the tracer. It is built
// once and treated as read-only while a render is in flight.
type Scene struct {
	Primitives []Primitive
}

func NewScene() *Scene {
	return &Scene{
		Primitives: make([]Primitive, 0),
	}
}

// Add a primitive to the scene.
func (s *Scene) Add(primitive Primitive) error {
	if primitive == nil {
		return fmt.Errorf("scene: cannot add nil primitive")
	}
	s.Primitives = append(s.Primitives, primitive)
	return nil
}

// Convenience for the common case of building sphere scenes.
func (s *Scene) AddSphere(center types.Vec3, radius float32, material *Material) error {
	sphere, err := NewSphere(center, radius, material)
	if err != nil {
		return err
	}
	return s.Add(sphere)
}

// Find the nearest intersection along the ray. The admissible range
// shrinks as closer hits are found, so the scan stays O(n) with no
// per-primitive sorting. Equidistant primitives tie-break in insertion
// order.
func (s *Scene) Hit(ray types.Ray, tMin, tMax float32) (HitRecord, bool) {
	var closest HitRecord
	found := false

	for _, prim := range s.Primitives {
		if hit, ok := prim.Hit(ray, tMin, tMax); ok {
			closest = hit
			tMax = hit.T
			found = true
		}
	}

	return closest, found
}

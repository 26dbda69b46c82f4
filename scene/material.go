package scene

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/KasumiL5x/rs-raytracer/types"
)

type MaterialType uint8

const (
	LambertianMaterial MaterialType = iota
	MetalMaterial
	DielectricMaterial
)

// Defines a surface material. The variant set is closed; Scatter
// dispatches on Type. Materials are immutable after construction and are
// shared by pointer between however many primitives use them.
type Material struct {
	// The type of the material.
	Type MaterialType

	// Intrinsic reflectance color (lambertian and metal materials).
	Albedo types.Vec3

	// Reflection roughness in [0, 1] (metal materials only).
	Fuzz float32

	// Index of refraction (dielectric materials only).
	IOR float32
}

// Create a new diffuse material.
func NewLambertian(albedo types.Vec3) (*Material, error) {
	if err := validateAlbedo(albedo); err != nil {
		return nil, err
	}
	return &Material{Type: LambertianMaterial, Albedo: albedo}, nil
}

// Create a new reflective material. fuzz randomizes the reflection
// direction; 0 is a perfect mirror.
func NewMetal(albedo types.Vec3, fuzz float32) (*Material, error) {
	if err := validateAlbedo(albedo); err != nil {
		return nil, err
	}
	if fuzz < 0 || fuzz > 1 {
		return nil, fmt.Errorf("scene: metal fuzziness %g outside [0, 1]", fuzz)
	}
	return &Material{Type: MetalMaterial, Albedo: albedo, Fuzz: fuzz}, nil
}

// Create a new refractive material with the given index of refraction.
func NewDielectric(ior float32) (*Material, error) {
	if ior <= 0 {
		return nil, fmt.Errorf("scene: refractive index %g must be > 0", ior)
	}
	return &Material{Type: DielectricMaterial, IOR: ior}, nil
}

func validateAlbedo(albedo types.Vec3) error {
	for _, c := range albedo {
		if c < 0 || c > 1 {
			return fmt.Errorf("scene: albedo %v has channels outside [0, 1]", albedo)
		}
	}
	return nil
}

// Scatter the incoming ray at the given hit point. It returns the
// scattered ray and the attenuation color, or ok=false when the ray is
// absorbed. rng is the caller-owned random stream; materials never touch
// global random state.
func (m *Material) Scatter(in types.Ray, hit *HitRecord, rng *rand.Rand) (types.Ray, types.Vec3, bool) {
	switch m.Type {
	case MetalMaterial:
		return m.scatterMetal(in, hit, rng)
	case DielectricMaterial:
		return m.scatterDielectric(in, hit, rng)
	default:
		return m.scatterLambertian(in, hit, rng)
	}
}

// Diffuse scattering: offset the surface normal by a random point inside
// the unit sphere, approximating a cosine-weighted distribution. Diffuse
// surfaces never absorb.
func (m *Material) scatterLambertian(_ types.Ray, hit *HitRecord, rng *rand.Rand) (types.Ray, types.Vec3, bool) {
	dir := hit.Normal.Add(randInUnitSphere(rng))
	return types.NewRay(hit.Point, dir), m.Albedo, true
}

// Specular scattering: mirror-reflect and perturb by the fuzz factor.
// Rays whose fuzzed direction ends up below the surface are absorbed.
func (m *Material) scatterMetal(in types.Ray, hit *HitRecord, rng *rand.Rand) (types.Ray, types.Vec3, bool) {
	reflected := in.Dir.Normalize().Reflect(hit.Normal)
	if m.Fuzz > 0 {
		reflected = reflected.Add(randInUnitSphere(rng).Mul(m.Fuzz))
	}
	if reflected.Dot(hit.Normal) <= 0 {
		return types.Ray{}, types.Vec3{}, false
	}
	return types.NewRay(hit.Point, reflected), m.Albedo, true
}

// Refractive scattering: Snell's law picks refraction unless total
// internal reflection forces a bounce; otherwise Schlick's approximation
// decides probabilistically, giving glass its angle-dependent
// reflectivity. Clear glass does not tint the ray.
func (m *Material) scatterDielectric(in types.Ray, hit *HitRecord, rng *rand.Rand) (types.Ray, types.Vec3, bool) {
	etaRatio := m.IOR
	if hit.FrontFace {
		etaRatio = 1.0 / m.IOR
	}

	unitDir := in.Dir.Normalize()
	cosTheta := math32.Min(unitDir.Neg().Dot(hit.Normal), 1.0)
	sinTheta := math32.Sqrt(1.0 - cosTheta*cosTheta)

	var dir types.Vec3
	cannotRefract := etaRatio*sinTheta > 1.0
	if cannotRefract || schlick(cosTheta, etaRatio) > rng.Float32() {
		dir = unitDir.Reflect(hit.Normal)
	} else {
		dir = unitDir.Refract(hit.Normal, etaRatio)
	}

	return types.NewRay(hit.Point, dir), types.XYZ(1, 1, 1), true
}

// Schlick's approximation of the Fresnel reflectance.
func schlick(cosTheta, etaRatio float32) float32 {
	r0 := (1 - etaRatio) / (1 + etaRatio)
	r0 *= r0
	return r0 + (1-r0)*math32.Pow(1-cosTheta, 5)
}

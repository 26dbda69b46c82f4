package scene

import (
	"math/rand"

	"github.com/KasumiL5x/rs-raytracer/types"
)

// Uniform random point inside the unit sphere via rejection sampling.
// Rejection keeps the distribution uniform; roughly half the candidate
// cube points are accepted.
func randInUnitSphere(rng *rand.Rand) types.Vec3 {
	for {
		p := types.XYZ(2*rng.Float32()-1, 2*rng.Float32()-1, 2*rng.Float32()-1)
		if p.LenSqr() < 1 {
			return p
		}
	}
}

// Uniform random point inside the unit disk on the xy plane. Used for
// lens aperture sampling.
func randInUnitDisk(rng *rand.Rand) types.Vec3 {
	for {
		p := types.XYZ(2*rng.Float32()-1, 2*rng.Float32()-1, 0)
		if p.LenSqr() < 1 {
			return p
		}
	}
}

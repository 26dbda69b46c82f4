package scene

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/KasumiL5x/rs-raytracer/types"
)

// A thin-lens camera. The orthonormal basis, image plane rectangle and
// lens radius are derived once at construction; the camera is immutable
// afterwards and safe to share between tracers.
type Camera struct {
	origin          types.Vec3
	lowerLeftCorner types.Vec3
	horizontal      types.Vec3
	vertical        types.Vec3
	u, v, w         types.Vec3
	lensRadius      float32
}

// Create a new camera.
//
// vfov is the vertical field of view in degrees and aspect the image
// width/height ratio. aperture is the lens diameter; 0 degenerates to a
// pinhole camera with everything in focus. focusDist is the distance to
// the plane of perfect focus along the viewing axis.
func NewCamera(lookFrom, lookAt, up types.Vec3, vfov, aspect, aperture, focusDist float32) (*Camera, error) {
	if vfov <= 0 || vfov >= 180 {
		return nil, fmt.Errorf("scene: vertical fov %g outside (0, 180)", vfov)
	}
	if aspect <= 0 {
		return nil, fmt.Errorf("scene: aspect ratio %g must be > 0", aspect)
	}
	if aperture < 0 {
		return nil, fmt.Errorf("scene: aperture %g must be >= 0", aperture)
	}
	if focusDist <= 0 {
		return nil, fmt.Errorf("scene: focus distance %g must be > 0", focusDist)
	}

	forward := lookFrom.Sub(lookAt)
	if forward.Len() < 1e-6 {
		return nil, fmt.Errorf("scene: camera look-from and look-at coincide")
	}

	theta := vfov * math32.Pi / 180.0
	halfHeight := math32.Tan(theta / 2)
	halfWidth := aspect * halfHeight

	w := forward.Normalize()
	u := up.Cross(w).Normalize()
	if u.Len() < 1e-6 {
		return nil, fmt.Errorf("scene: up vector is parallel to the viewing axis")
	}
	v := w.Cross(u)

	origin := lookFrom
	horizontal := u.Mul(2 * halfWidth * focusDist)
	vertical := v.Mul(2 * halfHeight * focusDist)
	lowerLeftCorner := origin.
		Sub(horizontal.Div(2)).
		Sub(vertical.Div(2)).
		Sub(w.Mul(focusDist))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      aperture / 2,
	}, nil
}

// Generate a ray through normalized image plane coordinates s, t in
// [0, 1], with (0, 0) the lower left corner. The ray origin is jittered
// over the lens disk and aimed through the matching point on the focus
// plane, which is what produces depth of field blur.
func (c *Camera) GetRay(s, t float32, rng *rand.Rand) types.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := randInUnitDisk(rng).Mul(c.lensRadius)
		origin = origin.Add(c.u.Mul(rd[0])).Add(c.v.Mul(rd[1]))
	}

	dir := c.lowerLeftCorner.
		Add(c.horizontal.Mul(s)).
		Add(c.vertical.Mul(t)).
		Sub(origin)
	return types.NewRay(origin, dir)
}

// The camera eye position.
func (c *Camera) Origin() types.Vec3 {
	return c.origin
}

package cmd

import (
	"fmt"

	"github.com/KasumiL5x/rs-raytracer/scene"
	"github.com/KasumiL5x/rs-raytracer/types"
)

// Scene files are out of scope; the renderer works on in-memory scenes
// built by this catalog of named setups.
type sceneEntry struct {
	Name        string
	Description string
	Build       func(aspect float32) (*scene.Scene, *scene.Camera, error)
}

var sceneCatalog = []sceneEntry{
	{
		Name:        "three-spheres",
		Description: "diffuse, metal and glass spheres on a ground sphere, with depth of field",
		Build:       buildThreeSpheres,
	},
	{
		Name:        "single-sphere",
		Description: "a single diffuse sphere over the background gradient, pinhole camera",
		Build:       buildSingleSphere,
	},
}

// Look up a catalog scene by name and build it for the given aspect
// ratio.
func buildScene(name string, aspect float32) (*scene.Scene, *scene.Camera, error) {
	for _, entry := range sceneCatalog {
		if entry.Name == name {
			return entry.Build(aspect)
		}
	}
	return nil, nil, fmt.Errorf("cmd: unknown scene %q; run list-scenes for the available names", name)
}

func buildThreeSpheres(aspect float32) (*scene.Scene, *scene.Camera, error) {
	ground, err := scene.NewLambertian(types.XYZ(0.8, 0.8, 0.0))
	if err != nil {
		return nil, nil, err
	}
	center, err := scene.NewLambertian(types.XYZ(0.1, 0.2, 0.5))
	if err != nil {
		return nil, nil, err
	}
	left, err := scene.NewDielectric(1.5)
	if err != nil {
		return nil, nil, err
	}
	right, err := scene.NewMetal(types.XYZ(0.8, 0.6, 0.2), 0.1)
	if err != nil {
		return nil, nil, err
	}

	sc := scene.NewScene()
	for _, add := range []error{
		sc.AddSphere(types.XYZ(0, -100.5, -1), 100, ground),
		sc.AddSphere(types.XYZ(0, 0, -1), 0.5, center),
		sc.AddSphere(types.XYZ(-1, 0, -1), 0.5, left),
		sc.AddSphere(types.XYZ(1, 0, -1), 0.5, right),
	} {
		if add != nil {
			return nil, nil, add
		}
	}

	lookFrom := types.XYZ(3, 3, 2)
	lookAt := types.XYZ(0, 0, -1)
	cam, err := scene.NewCamera(
		lookFrom, lookAt, types.XYZ(0, 1, 0),
		20, aspect, 0.4, lookFrom.Sub(lookAt).Len(),
	)
	if err != nil {
		return nil, nil, err
	}
	return sc, cam, nil
}

func buildSingleSphere(aspect float32) (*scene.Scene, *scene.Camera, error) {
	mat, err := scene.NewLambertian(types.XYZ(0.5, 0.5, 0.5))
	if err != nil {
		return nil, nil, err
	}

	sc := scene.NewScene()
	if err := sc.AddSphere(types.XYZ(0, 0, -1), 0.5, mat); err != nil {
		return nil, nil, err
	}

	cam, err := scene.NewCamera(
		types.XYZ(0, 0, 0), types.XYZ(0, 0, -1), types.XYZ(0, 1, 0),
		90, aspect, 0, 1,
	)
	if err != nil {
		return nil, nil, err
	}
	return sc, cam, nil
}

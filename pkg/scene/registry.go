package scene

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrUnknownScene is returned for a scene name with no builder
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a builtin scene
type SceneInfo struct {
	Name        string
	Description string
	build       func(random *rand.Rand) *Scene
}

var builtinScenes = map[string]SceneInfo{}

func register(name, description string, build func(random *rand.Rand) *Scene) {
	builtinScenes[name] = SceneInfo{Name: name, Description: description, build: build}
}

func init() {
	register("random", "Checker ground with a grid of small moving, metal and glass spheres", NewRandomScene)
	register("two-spheres", "Two large checker-textured spheres", NewTwoSpheresScene)
	register("two-perlin-spheres", "Ground and sphere with marble noise", NewTwoPerlinSpheresScene)
	register("simple-light", "Noise spheres lit by a rectangular area light", NewSimpleLightScene)
	register("cornell", "Cornell box built from axis-aligned rectangles", NewCornellScene)
	register(EarthScene, "Globe with an image texture, a graticule unless one is given", func(*rand.Rand) *Scene {
		return NewEarthScene(NewGraticuleTexture())
	})
}

// List returns the builtin scenes sorted by name
func List() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, info := range builtinScenes {
		scenes = append(scenes, info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes
}

// New creates a builtin scene. The seed drives object placement and
// procedural textures; the BVH is not built yet.
func New(name string, seed int64) (*Scene, error) {
	info, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	s := info.build(rand.New(rand.NewSource(seed)))
	s.Name = name
	return s, nil
}

// Load creates a builtin scene and builds its BVH from the same seed
func Load(name string, seed int64) (*Scene, error) {
	s, err := New(name, seed)
	if err != nil {
		return nil, err
	}
	if err := s.Build(seed); err != nil {
		return nil, err
	}
	return s, nil
}

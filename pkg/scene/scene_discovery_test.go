package scene

import (
	"strings"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"hollow-glass", "Hollow Glass"},
		{"sphere_grid", "Sphere Grid"},
		{"my-custom-scene", "My Custom Scene"},
		{"demo", "Demo"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestListAllScenes(t *testing.T) {
	response := ListAllScenes()

	if len(response.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(response.Groups))
	}
	if response.Groups[0].Name != builtInGroup {
		t.Errorf("Expected %q group first, got %q", builtInGroup, response.Groups[0].Name)
	}

	found := make(map[string]SceneInfo)
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			if info.Group != group.Name {
				t.Errorf("Scene %q listed under %q but belongs to %q", info.ID, group.Name, info.Group)
			}
			found[info.ID] = info
		}
	}

	for _, name := range SceneNames() {
		info, ok := found[name]
		if !ok {
			t.Errorf("Scene %q missing from listing", name)
			continue
		}
		if info.DisplayName == "" {
			t.Errorf("Scene %q has no display name", name)
		}
	}

	if found["spheregrid"].DisplayName != "Sphere Grid" {
		t.Errorf("Expected explicit name to win, got %q", found["spheregrid"].DisplayName)
	}
	if found["demo"].DisplayName != "Demo" {
		t.Errorf("Expected derived display name Demo, got %q", found["demo"].DisplayName)
	}
	if !found["random"].Seeded || found["demo"].Seeded {
		t.Error("Only the random scene should be seeded")
	}
}

func TestCreateUnknownScene(t *testing.T) {
	_, err := Create("cornell", Options{})
	if err == nil {
		t.Fatal("Expected error for unknown scene")
	}
	if !strings.Contains(err.Error(), "cornell") || !strings.Contains(err.Error(), "demo") {
		t.Errorf("Expected error to name the scene and the alternatives, got %v", err)
	}
}

func TestCreateAppliesOptions(t *testing.T) {
	vfov := 35.0
	s, err := Create("demo", Options{
		Width:           320,
		SamplesPerPixel: 7,
		MaxDepth:        3,
		Camera:          renderer.CameraOverride{VFov: &vfov},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cfg := s.GetSamplingConfig()
	if cfg.Width != 320 || cfg.Height != 180 {
		t.Errorf("Expected 320x180, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.SamplesPerPixel != 7 || cfg.MaxDepth != 3 {
		t.Errorf("Expected 7 samples and depth 3, got %d and %d", cfg.SamplesPerPixel, cfg.MaxDepth)
	}
	if s.CameraConfig.VFov != 35 {
		t.Errorf("Expected camera override vfov 35, got %f", s.CameraConfig.VFov)
	}
	if s.CameraConfig.Center != core.NewVec3(3, 3, 2) {
		t.Errorf("Expected default look-from to survive, got %v", s.CameraConfig.Center)
	}
}

func TestCreateEveryScene(t *testing.T) {
	for _, name := range SceneNames() {
		t.Run(name, func(t *testing.T) {
			s, err := Create(name, Options{Seed: 1})
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if s.GetCamera() == nil {
				t.Error("Scene has no camera")
			}
			if s.GetPrimitiveCount() == 0 {
				t.Error("Scene has no spheres")
			}
			cfg := s.GetSamplingConfig()
			if cfg.Width <= 0 || cfg.Height <= 0 || cfg.SamplesPerPixel <= 0 || cfg.MaxDepth <= 0 {
				t.Errorf("Invalid sampling config %+v", cfg)
			}
		})
	}
}

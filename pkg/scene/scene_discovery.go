package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, also the CLI name
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Seeded      bool   `json:"seeded"`      // Whether the seed changes the layout
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// Options tunes a scene at creation time. Zero values keep the scene's defaults.
type Options struct {
	Width           int                     // Image width; height follows the aspect ratio
	SamplesPerPixel int                     // Samples per pixel
	MaxDepth        int                     // Maximum bounce depth
	Seed            int64                   // Layout seed for seeded scenes
	Camera          renderer.CameraOverride // Set fields override the scene camera
}

type sceneEntry struct {
	info  SceneInfo
	build func(opts Options) *Scene
}

const builtInGroup = "Built-in Scenes"

var registry = []sceneEntry{
	{
		info: SceneInfo{
			ID:          "demo",
			Description: "Diffuse, hollow glass and metal spheres on a yellow ground",
			Group:       builtInGroup,
		},
		build: func(opts Options) *Scene { return NewDemoScene(opts.Camera) },
	},
	{
		info: SceneInfo{
			ID:          "random",
			Description: "Random field of small spheres around three large feature spheres",
			Group:       builtInGroup,
			Seeded:      true,
		},
		build: func(opts Options) *Scene { return NewRandomScene(opts.Seed, opts.Camera) },
	},
	{
		info: SceneInfo{
			ID:          "spheregrid",
			Name:        "Sphere Grid",
			Description: "20x20 grid of rainbow-colored metallic spheres",
			Group:       "Showcase",
		},
		build: func(opts Options) *Scene { return NewSphereGridScene(opts.Camera) },
	},
}

// sceneInfo fills the display names of a registry entry
func (e sceneEntry) sceneInfo() SceneInfo {
	info := e.info
	if info.Name == "" {
		info.Name = titleCase(info.ID)
	}
	info.DisplayName = info.Name
	return info
}

// SceneNames returns the IDs of all built-in scenes in registration order
func SceneNames() []string {
	names := make([]string, 0, len(registry))
	for _, entry := range registry {
		names = append(names, entry.info.ID)
	}
	return names
}

// Create builds the named scene and applies opts on top of its defaults
func Create(name string, opts Options) (*Scene, error) {
	for _, entry := range registry {
		if entry.info.ID != name {
			continue
		}

		s := entry.build(opts)
		s.SetWidth(opts.Width)
		if opts.SamplesPerPixel > 0 {
			s.SamplingConfig.SamplesPerPixel = opts.SamplesPerPixel
		}
		if opts.MaxDepth > 0 {
			s.SamplingConfig.MaxDepth = opts.MaxDepth
		}
		return s, nil
	}

	return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(SceneNames(), ", "))
}

// ListAllScenes returns the built-in scenes grouped by category
func ListAllScenes() ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]SceneInfo)
	for _, entry := range registry {
		info := entry.sceneInfo()
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if scenes, exists := groupMap[builtInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtInGroup,
			Scenes: scenes,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response
}

// titleCase converts an identifier-style string to title case
// e.g., "hollow-glass" -> "Hollow Glass"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}

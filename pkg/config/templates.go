package config

import "sort"

// SceneTemplate is a named, ready-made set of bodies
type SceneTemplate struct {
	Name        string
	Description string
	Bodies      []BodyConfig
}

var sceneTemplates = map[string]func() SceneTemplate{
	"falling": fallingTemplate,
	"rain":    rainTemplate,
	"stack":   stackTemplate,
}

// GetSceneTemplate returns a fresh copy of the named template, or nil
func GetSceneTemplate(name string) *SceneTemplate {
	build, ok := sceneTemplates[name]
	if !ok {
		return nil
	}
	tmpl := build()
	return &tmpl
}

// ListSceneTemplates returns template names mapped to their descriptions
func ListSceneTemplates() map[string]string {
	out := make(map[string]string, len(sceneTemplates))
	for name, build := range sceneTemplates {
		out[name] = build().Description
	}
	return out
}

// SceneTemplateNames returns the template names in sorted order
func SceneTemplateNames() []string {
	names := make([]string, 0, len(sceneTemplates))
	for name := range sceneTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func floor() BodyConfig {
	return BodyConfig{
		Name:   "floor",
		X:      0,
		Y:      560,
		Static: true,
		Shape:  ShapeConfig{Type: ShapeTypeRectangle, Width: 800, Height: 40},
	}
}

func circle(name string, x, y, r float32) BodyConfig {
	return BodyConfig{
		Name:  name,
		X:     x,
		Y:     y,
		Shape: ShapeConfig{Type: ShapeTypeCircle, Radius: r},
	}
}

func fallingTemplate() SceneTemplate {
	ball := circle("ball", 400, 100, 25)
	ball.VX = 60
	return SceneTemplate{
		Name:        "Falling",
		Description: "three circles dropping onto a static floor",
		Bodies: []BodyConfig{
			floor(),
			ball,
			circle("pebble", 200, 50, 10),
			circle("boulder", 620, 20, 40),
		},
	}
}

func rainTemplate() SceneTemplate {
	bodies := []BodyConfig{floor()}
	for i := 0; i < 12; i++ {
		x := float32(40 + i*62)
		y := float32(10 + (i%4)*30)
		bodies = append(bodies, circle("drop", x, y, 6))
	}
	return SceneTemplate{
		Name:        "Rain",
		Description: "a row of small circles falling at staggered heights",
		Bodies:      bodies,
	}
}

func stackTemplate() SceneTemplate {
	bodies := []BodyConfig{floor()}
	for i := 0; i < 5; i++ {
		bodies = append(bodies, BodyConfig{
			Name:  "crate",
			X:     360,
			Y:     float32(500 - i*50),
			Shape: ShapeConfig{Type: ShapeTypeRectangle, Width: 40, Height: 40},
		})
	}
	return SceneTemplate{
		Name:        "Stack",
		Description: "a column of crates settling on the floor",
		Bodies:      bodies,
	}
}

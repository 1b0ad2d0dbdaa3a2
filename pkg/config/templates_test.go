package config

import (
	"testing"
)

func TestSceneTemplates(t *testing.T) {
	names := SceneTemplateNames()
	want := []string{"falling", "rain", "stack"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d templates, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected template %q at %d, got %q", want[i], i, names[i])
		}
	}

	descriptions := ListSceneTemplates()
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			tmpl := GetSceneTemplate(name)
			if tmpl == nil {
				t.Fatal("GetSceneTemplate returned nil")
			}
			if descriptions[name] == "" {
				t.Error("Expected a description")
			}
			if len(tmpl.Bodies) < 2 {
				t.Errorf("Expected at least 2 bodies, got %d", len(tmpl.Bodies))
			}

			config := DefaultConfig()
			config.Bodies = tmpl.Bodies
			if err := config.Validate(); err != nil {
				t.Errorf("Template is invalid: %v", err)
			}
		})
	}
}

func TestGetSceneTemplate_Unknown(t *testing.T) {
	if tmpl := GetSceneTemplate("nebula"); tmpl != nil {
		t.Errorf("Expected nil for unknown template, got %+v", tmpl)
	}
}

func TestGetSceneTemplate_ReturnsCopy(t *testing.T) {
	first := GetSceneTemplate("falling")
	first.Bodies[0].X = 999

	second := GetSceneTemplate("falling")
	if second.Bodies[0].X == 999 {
		t.Error("Expected templates to be independent copies")
	}
}

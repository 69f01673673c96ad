package skill

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRenderReadme(t *testing.T) {
	out, err := renderReadme(readmeData{
		IconURL:          "https://example.com/bell.svg",
		Color:            "#FF0000",
		Title:            "Siren Alarm",
		ShortDescription: "Wakes you up with a loud siren",
		LongDescription:  "Plays a siren noise until you get up.",
		Examples:         []string{"Set an alarm"},
		Author:           "Jane",
		CategoryPrimary:  "Daily",
		CategoriesOther:  []string{"Productivity"},
		Tags:             []string{"Alarm"},
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`card_color="#FF0000"`,
		"https://example.com/bell.svg",
		"# <img src=",
		"Siren Alarm",
		"Wakes you up with a loud siren",
		"## About\nPlays a siren noise until you get up.",
		`* "Set an alarm"`,
		"## Credits\nJane",
		"**Daily**",
		"Productivity",
		"#Alarm",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("README missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHandlerBodyNoEntities(t *testing.T) {
	body := renderHandlerBody("alarm.siren", map[string]bool{}, map[string]bool{})
	want := "        self.speak_dialog('alarm.siren')"
	if body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestRenderHandlerBodyWithEntities(t *testing.T) {
	body := renderHandlerBody(
		"orderer.pizza",
		map[string]bool{"size": true},
		map[string]bool{"size": true, "topping": true},
	)

	want := strings.Join([]string{
		"        size = message.data.get('size')",
		"        topping = ''",
		"",
		"        self.speak_dialog('orderer.pizza', data={",
		"            'size': size,",
		"            'topping': topping",
		"        })",
	}, "\n")
	if body != want {
		t.Errorf("body =\n%s\nwant\n%s", body, want)
	}
}

func TestRenderSettingsMeta(t *testing.T) {
	out, err := renderSettingsMeta()
	if err != nil {
		t.Fatal(err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("settingsmeta is not valid YAML: %v", err)
	}
	if _, ok := parsed["skillMetadata"]; !ok {
		t.Error("settingsmeta missing skillMetadata key")
	}
	for _, want := range []string{"username", "password", "Options << Name of section"} {
		if !strings.Contains(out, want) {
			t.Errorf("settingsmeta missing %q:\n%s", want, out)
		}
	}
}

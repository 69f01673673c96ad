package skill

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const readmeTemplate = `# <img src="{{.IconURL}}" card_color="{{.Color}}" width="50" height="50" style="vertical-align:bottom"/> {{.Title}}
{{.ShortDescription}}

## About
{{.LongDescription}}

## Examples
{{range .Examples}}* "{{.}}"
{{end}}
## Credits
{{.Author}}

## Category
**{{.CategoryPrimary}}**
{{range .CategoriesOther}}{{.}}
{{end}}
## Tags
{{range .Tags}}#{{.}}
{{end}}`

const handlerTemplate = `from mycroft import MycroftSkill, intent_file_handler


class {{.ClassName}}(MycroftSkill):
    def __init__(self):
        MycroftSkill.__init__(self)

    @intent_file_handler('{{.IntentName}}.intent')
    def handle_{{.HandlerName}}(self, message):
{{.HandlerBody}}

def create_skill():
    return {{.ClassName}}()
`

const gitignoreBody = `__pycache__/
*.qmlc
settings.json
`

var (
	readmeTmpl  = template.Must(template.New("readme").Parse(readmeTemplate))
	handlerTmpl = template.Must(template.New("handler").Parse(handlerTemplate))
)

// readmeData holds the fields interpolated into the README template.
type readmeData struct {
	IconURL          string
	Color            string
	Title            string
	ShortDescription string
	LongDescription  string
	Examples         []string
	Author           string
	CategoryPrimary  string
	CategoriesOther  []string
	Tags             []string
}

func renderReadme(data readmeData) (string, error) {
	var buf bytes.Buffer
	if err := readmeTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render README: %w", err)
	}
	return buf.String(), nil
}

// handlerData holds the fields interpolated into the handler stub.
type handlerData struct {
	ClassName   string
	IntentName  string
	HandlerName string
	HandlerBody string
}

func renderHandler(data handlerData) (string, error) {
	var buf bytes.Buffer
	if err := handlerTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render handler stub: %w", err)
	}
	return buf.String(), nil
}

// renderHandlerBody generates the body of the intent handler: one binding per
// entity found in the example phrases, an empty-string binding for entities
// that only appear in dialog lines, and the speak_dialog call.
func renderHandlerBody(intentName string, intentEntities, dialogEntities map[string]bool) string {
	all := map[string]bool{}
	for e := range intentEntities {
		all[e] = true
	}
	for e := range dialogEntities {
		all[e] = true
	}

	var lines []string
	for _, entity := range sortedKeys(intentEntities) {
		lines = append(lines, fmt.Sprintf("%s = message.data.get('%s')", entity, entity))
	}
	for _, entity := range sortedKeys(dialogEntities) {
		if !intentEntities[entity] {
			lines = append(lines, fmt.Sprintf("%s = ''", entity))
		}
	}

	if len(all) == 0 {
		lines = append(lines, fmt.Sprintf("self.speak_dialog('%s')", intentName))
	} else {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("self.speak_dialog('%s', data={", intentName))
		keys := sortedKeys(all)
		for i, entity := range keys {
			sep := ","
			if i == len(keys)-1 {
				sep = ""
			}
			lines = append(lines, fmt.Sprintf("    '%s': %s%s", entity, entity, sep))
		}
		lines = append(lines, "})")
	}

	for i, line := range lines {
		if line != "" {
			lines[i] = strings.Repeat(" ", 8) + line
		}
	}
	return strings.Join(lines, "\n")
}

// settingsMeta mirrors the settingsmeta.yaml document that seeds a new
// skill's configuration UI.
type settingsMeta struct {
	SkillMetadata struct {
		Sections []settingsSection `yaml:"sections"`
	} `yaml:"skillMetadata"`
}

type settingsSection struct {
	Name   string          `yaml:"name"`
	Fields []settingsField `yaml:"fields"`
}

type settingsField struct {
	Name        string  `yaml:"name,omitempty"`
	Type        string  `yaml:"type"`
	Label       string  `yaml:"label"`
	Value       *string `yaml:"value,omitempty"`
	Placeholder string  `yaml:"placeholder,omitempty"`
}

// emptyValue marks a field that starts blank but still carries a value key in
// the generated document.
func emptyValue() *string {
	s := ""
	return &s
}

// renderSettingsMeta produces the example settingsmeta.yaml document.
func renderSettingsMeta() (string, error) {
	var meta settingsMeta
	meta.SkillMetadata.Sections = []settingsSection{
		{
			Name: "Options << Name of section",
			Fields: []settingsField{
				{
					Name:        "internal_python_variable_name",
					Type:        "text",
					Label:       "Setting Friendly Display Name",
					Value:       emptyValue(),
					Placeholder: "demo prompt in the input box",
				},
			},
		},
		{
			Name: "Login << Name of another section",
			Fields: []settingsField{
				{
					Type:  "label",
					Label: "Just a little bit of extra info for the user to understand following settings",
				},
				{Name: "username", Type: "text", Label: "Username", Value: emptyValue()},
				{Name: "password", Type: "password", Label: "Password", Value: emptyValue()},
			},
		},
	}

	data, err := yaml.Marshal(&meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal settingsmeta: %w", err)
	}
	return string(data), nil
}

// Package skill turns a set of interview answers into a committed skill
// project: a lazily evaluated answer set, pure derivations from the skill
// name, template rendering, and the scaffold pipeline that writes the tree.
package skill

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// nameInputPattern is the character class accepted by the name prompt before
// normalization.
var nameInputPattern = regexp.MustCompile(`^[a-zA-Z -]+$`)

// entityPattern matches a {placeholder} in phrase or dialog text.
var entityPattern = regexp.MustCompile(`\{([A-Za-z_]*)\}`)

// ValidateNameInput checks raw name input against the allowed character class.
func ValidateNameInput(raw string) error {
	if !nameInputPattern.MatchString(raw) {
		return errors.New("please use only letters, spaces, and hyphens")
	}
	if NormalizeName(raw) == "" {
		return errors.New("please enter a name")
	}
	return nil
}

// NormalizeName lowercases a raw skill name and converts spaces to hyphens:
// "Siren Alarm" becomes "siren-alarm".
func NormalizeName(raw string) string {
	name := strings.Trim(raw, " -")
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}

// ToCamel converts a hyphenated name to CamelCase: "pizza-orderer" becomes
// "PizzaOrderer".
func ToCamel(name string) string {
	var sb strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	}) {
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}

// ClassName derives the handler class name: "pizza-orderer" becomes
// "PizzaOrdererSkill".
func ClassName(name string) string {
	return ToCamel(name) + "Skill"
}

// RepoName derives the repository and directory name for a skill.
func RepoName(name string) string {
	return name + "-skill"
}

// IntentName derives the dotted intent identifier by reversing the
// hyphen-delimited tokens of the name: "pizza-orderer" becomes
// "orderer.pizza".
func IntentName(name string) string {
	parts := strings.Split(name, "-")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// ExtractEntities returns the set of {placeholder} names found in the given
// lines.
func ExtractEntities(lines []string) map[string]bool {
	entities := map[string]bool{}
	for _, line := range lines {
		for _, match := range entityPattern.FindAllStringSubmatch(line, -1) {
			if match[1] != "" {
				entities[match[1]] = true
			}
		}
	}
	return entities
}

// sortedKeys returns the keys of a set in lexical order.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Capitalize uppercases the first rune of a line and lowercases the rest,
// matching how phrases and dialog lines are stored on disk.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// TitleName turns a hyphenated name into a display title: "siren-alarm"
// becomes "Siren Alarm".
func TitleName(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "-", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

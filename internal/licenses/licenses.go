// Package licenses ships the license texts offered during scaffolding.
package licenses

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed files/*.md
var licenseFiles embed.FS

// License is one selectable license: a display name and the full text.
type License struct {
	Name string
	Body string
}

// All returns the available licenses sorted by display name.
func All() ([]License, error) {
	entries, err := fs.ReadDir(licenseFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded licenses: %w", err)
	}

	var out []License
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		body, err := fs.ReadFile(licenseFiles, path.Join("files", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read license %s: %w", entry.Name(), err)
		}
		out = append(out, License{
			Name: prettyName(entry.Name()),
			Body: string(body),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// prettyName turns a license filename into a display name,
// e.g. "Apache-2.0.md" becomes "Apache 2.0".
func prettyName(filename string) string {
	name := strings.TrimSuffix(filename, path.Ext(filename))
	return strings.ReplaceAll(name, "-", " ")
}

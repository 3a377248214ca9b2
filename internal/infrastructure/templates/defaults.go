// Package templates ships the default document templates embedded in the binary.
package templates

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

//go:embed defaults/*.yaml
var files embed.FS

// bundledPrefix marks template versions that come from the binary.
const bundledPrefix = "bundled-"

type file struct {
	Version                string `yaml:"version"`
	entity.TemplateContent `yaml:",inline"`
}

// Defaults bundled templates keyed by document type.
type Defaults struct {
	byType map[entity.DocumentType]*entity.Template
}

// Load decodes every embedded default template.
func Load() (*Defaults, error) {
	d := &Defaults{byType: make(map[entity.DocumentType]*entity.Template, len(entity.DocumentTypes))}
	for _, t := range entity.DocumentTypes {
		raw, err := files.ReadFile("defaults/" + string(t) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("templates: read default %s: %w", t, err)
		}
		var f file
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("templates: decode default %s: %w", t, err)
		}
		if f.Title == "" || len(f.Sections) == 0 {
			return nil, fmt.Errorf("templates: default %s has no title or sections", t)
		}
		d.byType[t] = &entity.Template{
			DocumentType: t,
			Version:      bundledPrefix + f.Version,
			Content:      f.TemplateContent,
			IsActive:     true,
		}
	}
	return d, nil
}

// MustLoad is Load that panics; the embedded files are part of the build.
func MustLoad() *Defaults {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

// Default returns a copy of the bundled template of a type.
func (d *Defaults) Default(docType entity.DocumentType) (*entity.Template, bool) {
	t, ok := d.byType[docType]
	if !ok {
		return nil, false
	}
	c := *t
	c.Content.Sections = append([]entity.TemplateSection(nil), t.Content.Sections...)
	return &c, true
}

// SeedVersion the version a bundled template gets when stored in the database.
func SeedVersion(t *entity.Template) string {
	if len(t.Version) > len(bundledPrefix) && t.Version[:len(bundledPrefix)] == bundledPrefix {
		return t.Version[len(bundledPrefix):]
	}
	return t.Version
}

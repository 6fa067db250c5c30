package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/catalog.yaml
var defaultCatalogYAML []byte

// catalogFile is the raw YAML shape before validation.
type catalogFile struct {
	Items     []Entry    `yaml:"items"`
	Wanderers []Wanderer `yaml:"wanderers"`
}

// Load reads the content catalog.
// Search order: customPath -> ~/.ndg/catalog.yaml -> ./data/catalog.yaml -> embedded default.
// Unknown slugs, rarities, categories and effect kinds are rejected here,
// at load time, so the engine never has to handle them mid-run.
func Load(customPath string) (*Table, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("catalog: cannot read %s: %w", customPath, err)
		}
		return parse(data)
	}

	if userPath := userCatalogPath(); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if t, err := parse(data); err == nil {
				return t, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("data", "catalog.yaml")); err == nil {
		if t, err := parse(data); err == nil {
			return t, nil
		}
	}

	return Default()
}

// Default parses the embedded catalog. The embedded data is validated
// like any other source; a broken embed is a build defect, not a
// runtime fallback case.
func Default() (*Table, error) {
	return parse(defaultCatalogYAML)
}

// userCatalogPath returns the path to the user catalog file, or empty
// if home is unavailable.
func userCatalogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ndg", "catalog.yaml")
}

func parse(data []byte) (*Table, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: cannot parse: %w", err)
	}

	for i := range file.Items {
		e := &file.Items[i]
		r, err := ParseRarity(e.RarityTag)
		if err != nil {
			return nil, fmt.Errorf("catalog: item %q: %w", e.Slug, err)
		}
		e.Rarity = r
	}

	return New(file.Items, file.Wanderers)
}

// New builds a validated table from already-typed records. Entries must
// carry their Rarity field; RarityTag is only consulted by the YAML
// path.
func New(items []Entry, wanderers []Wanderer) (*Table, error) {
	t := &Table{
		Entries:   items,
		Wanderers: wanderers,
		bySlug:    make(map[string]*Entry, len(items)),
		npcBySlug: make(map[string]*Wanderer, len(wanderers)),
	}

	if err := t.validate(); err != nil {
		return nil, err
	}

	for i := range t.Entries {
		t.bySlug[t.Entries[i].Slug] = &t.Entries[i]
	}
	for i := range t.Wanderers {
		t.npcBySlug[t.Wanderers[i].Slug] = &t.Wanderers[i]
	}

	return t, nil
}

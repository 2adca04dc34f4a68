package out

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"inkstone/internal/modules/prompt/domain"
	promptout "inkstone/internal/modules/prompt/port/out"
)

// YAMLCatalog reads prompt pools from a YAML file keyed by phase. Phases the
// file leaves out keep their built-in pool; a missing file means the built-in
// catalog.
type YAMLCatalog struct {
	path string
}

func NewYAMLCatalog(path string) promptout.CatalogSource {
	return &YAMLCatalog{path: path}
}

func (c *YAMLCatalog) Load(_ context.Context) (domain.Catalog, error) {
	catalog := domain.DefaultCatalog()
	if c.path == "" {
		return catalog, nil
	}
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return catalog, nil
		}
		return nil, fmt.Errorf("read prompt catalog: %w", err)
	}
	override := domain.Catalog{}
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("decode prompt catalog %s: %w", c.path, err)
	}
	for phase, pool := range override {
		key, err := domain.PhaseKey(phase)
		if err != nil {
			return nil, fmt.Errorf("prompt catalog %s: %w", c.path, err)
		}
		for i := range pool {
			if pool[i].Type == "" {
				pool[i].Type = domain.TypeReflection
			}
		}
		catalog[key] = pool
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("prompt catalog %s: %w", c.path, err)
	}
	return catalog, nil
}

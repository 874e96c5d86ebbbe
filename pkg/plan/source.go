package plan

import (
	"context"
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogSource defines how a catalog is loaded at startup.
type CatalogSource interface {
	Load(ctx context.Context) (Catalog, error)
}

type staticSource struct {
	catalog Catalog
}

// NewStaticSource returns a source serving a fixed catalog. Used for the
// built-in defaults and for tests with alternate tier definitions.
func NewStaticSource(catalog Catalog) CatalogSource {
	return &staticSource{catalog: catalog}
}

func (s *staticSource) Load(_ context.Context) (Catalog, error) {
	return s.catalog, nil
}

type yamlFileSource struct {
	path string
}

// NewYAMLFileSource returns a source reading tier configs from a YAML file.
// The file maps tier names to configs:
//
//	free:
//	  tier: free
//	  display_name: Free
//	  limits:
//	    locations: 1
//	    job_postings: 1
//
// The catalog is validated the same way as NewCatalog, so a partial or
// malformed file fails startup rather than serving wrong entitlements.
func NewYAMLFileSource(path string) CatalogSource {
	return &yamlFileSource{path: path}
}

func (s *yamlFileSource) Load(_ context.Context) (Catalog, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Catalog{}, errors.Join(ErrFailedToLoadCatalog, err)
	}

	var configs map[Tier]Config
	if err := yaml.Unmarshal(raw, &configs); err != nil {
		return Catalog{}, errors.Join(ErrFailedToLoadCatalog, err)
	}

	catalog, err := NewCatalog(configs)
	if err != nil {
		return Catalog{}, errors.Join(ErrFailedToLoadCatalog, err)
	}
	return catalog, nil
}

package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"groundwater-backend/internal/shared/storage/object"
)

//go:embed regions.yaml
var embeddedRegions []byte

type fileDoc struct {
	Regions []fileRegion `yaml:"regions"`
}

type fileRegion struct {
	Key             string       `yaml:"key"`
	Name            string       `yaml:"name"`
	Category        Category     `yaml:"category"`
	ExtractionPct   float64      `yaml:"extraction_pct"`
	Status          string       `yaml:"status"`
	Aliases         []string     `yaml:"aliases"`
	Issues          []string     `yaml:"issues"`
	Recommendations []string     `yaml:"recommendations"`
	History         []YearRecord `yaml:"history"`
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(embeddedRegions))
}

// Load parses a YAML catalog document.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc fileDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidCatalog, err)
	}

	regions := make([]Region, 0, len(doc.Regions))
	aliases := make(map[string][]string)
	for _, fr := range doc.Regions {
		regions = append(regions, Region{
			Key:             fr.Key,
			Name:            fr.Name,
			Category:        fr.Category,
			ExtractionPct:   fr.ExtractionPct,
			Status:          fr.Status,
			Issues:          fr.Issues,
			Recommendations: fr.Recommendations,
			History:         fr.History,
		})
		if len(fr.Aliases) > 0 {
			aliases[normalizeKey(fr.Key)] = fr.Aliases
		}
	}
	return New(regions, aliases)
}

// LoadFromStore reads the catalog document stored under key.
func LoadFromStore(ctx context.Context, store object.Store, key string) (*Catalog, error) {
	rc, err := store.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open catalog %q: %w", key, err)
	}
	defer rc.Close()
	return Load(rc)
}

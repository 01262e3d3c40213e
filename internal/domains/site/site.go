// Package site holds the catalogue of bookable locations, the room categories each
// one offers and which designations a gated category is reserved for.
package site

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"sporti/config"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

//go:embed sites.toml
var defaultCatalog []byte

type Category struct {
	Name         string   `json:"name"                   toml:"name"`
	Designations []string `json:"designations,omitempty" toml:"designations"`
}

// Gated reports whether the category is reserved for specific designations.
func (c Category) Gated() bool {
	return len(c.Designations) > 0
}

func (c Category) Permits(designation string) bool {
	if !c.Gated() {
		return true
	}

	return slices.ContainsFunc(c.Designations, func(d string) bool {
		return strings.EqualFold(d, strings.TrimSpace(designation))
	})
}

type Site struct {
	Code         string     `json:"code"          toml:"code"`
	Name         string     `json:"name"          toml:"name"`
	ServiceTypes []string   `json:"service_types" toml:"service_types"`
	Categories   []Category `json:"categories"    toml:"categories"`
}

type Catalog struct {
	Sites []Site `json:"sites" toml:"sites"`
}

func New(cfg *config.Config) *Catalog {
	data := defaultCatalog

	if path := cfg.Booking.SitesFile; path != "" {
		override, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to read site catalogue")
		}

		data = override
	}

	catalog, err := Parse(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse site catalogue")
	}

	log.Info().Int("sites", len(catalog.Sites)).Msg("Site catalogue loaded")

	return catalog
}

func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog

	if _, err := toml.Decode(string(data), &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode site catalogue: %w", err)
	}

	for _, s := range catalog.Sites {
		if s.Code == "" {
			return nil, fmt.Errorf("site without code in catalogue")
		}
	}

	return &catalog, nil
}

func (c *Catalog) Site(code string) (Site, bool) {
	idx := slices.IndexFunc(c.Sites, func(s Site) bool {
		return s.Code == code
	})

	if idx == -1 {
		return Site{}, false
	}

	return c.Sites[idx], true
}

// Category returns the category offered at location, if any.
func (c *Catalog) Category(location, name string) (Category, bool) {
	s, ok := c.Site(location)
	if !ok {
		return Category{}, false
	}

	idx := slices.IndexFunc(s.Categories, func(cat Category) bool {
		return strings.EqualFold(cat.Name, name)
	})

	if idx == -1 {
		return Category{}, false
	}

	return s.Categories[idx], true
}

// ServiceType returns the catalogue spelling of serviceType when location offers it.
func (c *Catalog) ServiceType(location, serviceType string) (string, bool) {
	s, ok := c.Site(location)
	if !ok {
		return "", false
	}

	idx := slices.IndexFunc(s.ServiceTypes, func(t string) bool {
		return strings.EqualFold(t, serviceType)
	})

	if idx == -1 {
		return "", false
	}

	return s.ServiceTypes[idx], true
}

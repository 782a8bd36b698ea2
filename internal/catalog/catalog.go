// Package catalog holds the reference data offered by the application wizard:
// industrial groups, provincial chapters, name prefixes and business types.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

// Group is an industrial group or provincial chapter a member can join.
type Group struct {
	ID     string `yaml:"id" json:"id"`
	NameTh string `yaml:"name_th" json:"nameTh"`
	NameEn string `yaml:"name_en" json:"nameEn"`
}

// Prename is a Thai/English name prefix pair.
type Prename struct {
	Th string `yaml:"th" json:"th"`
	En string `yaml:"en" json:"en"`
}

// BusinessType is one selectable business activity.
type BusinessType struct {
	Key    string `yaml:"key" json:"key"`
	NameTh string `yaml:"name_th" json:"nameTh"`
	NameEn string `yaml:"name_en" json:"nameEn"`
}

// Catalog is the full reference data set.
type Catalog struct {
	IndustrialGroups   []Group        `yaml:"industrial_groups" json:"industrialGroups"`
	ProvincialChapters []Group        `yaml:"provincial_chapters" json:"provincialChapters"`
	Prenames           []Prename      `yaml:"prenames" json:"prenames"`
	BusinessTypes      []BusinessType `yaml:"business_types" json:"businessTypes"`

	groupIdx   map[string]Group
	chapterIdx map[string]Group
	typeIdx    map[string]bool
}

// Parse decodes a YAML catalog and builds its lookup indexes.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c.groupIdx = make(map[string]Group, len(c.IndustrialGroups))
	for _, g := range c.IndustrialGroups {
		if _, dup := c.groupIdx[g.ID]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate industrial group %q", g.ID)
		}
		c.groupIdx[g.ID] = g
	}

	c.chapterIdx = make(map[string]Group, len(c.ProvincialChapters))
	for _, g := range c.ProvincialChapters {
		if _, dup := c.chapterIdx[g.ID]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate provincial chapter %q", g.ID)
		}
		c.chapterIdx[g.ID] = g
	}

	c.typeIdx = make(map[string]bool, len(c.BusinessTypes))
	for _, bt := range c.BusinessTypes {
		c.typeIdx[bt.Key] = true
	}

	return &c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded file is
// malformed, which the package tests guard against.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultData)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// HasIndustrialGroup reports whether id is a known industrial group.
func (c *Catalog) HasIndustrialGroup(id string) bool {
	_, ok := c.groupIdx[id]
	return ok
}

// HasProvincialChapter reports whether id is a known provincial chapter.
func (c *Catalog) HasProvincialChapter(id string) bool {
	_, ok := c.chapterIdx[id]
	return ok
}

// HasBusinessType reports whether key is a known business type.
func (c *Catalog) HasBusinessType(key string) bool {
	return c.typeIdx[key]
}

// GroupName returns the Thai name of an industrial group or provincial
// chapter, or the id itself when unknown.
func (c *Catalog) GroupName(id string) string {
	if g, ok := c.groupIdx[id]; ok {
		return g.NameTh
	}
	if g, ok := c.chapterIdx[id]; ok {
		return g.NameTh
	}
	return id
}

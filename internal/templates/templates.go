// Package templates holds the fixed catalogue of prompt templates offered to clients.
package templates

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"docclean/internal/model"
)

//go:embed templates.yaml
var catalogueYAML []byte

var catalogue = mustLoad(catalogueYAML)

func mustLoad(data []byte) []model.PromptTemplate {
	tpls, err := parse(data)
	if err != nil {
		panic(err)
	}
	return tpls
}

func parse(data []byte) ([]model.PromptTemplate, error) {
	var tpls []model.PromptTemplate
	if err := yaml.Unmarshal(data, &tpls); err != nil {
		return nil, fmt.Errorf("decode template catalogue: %w", err)
	}
	seen := make(map[int]bool, len(tpls))
	for _, t := range tpls {
		if t.ID <= 0 || t.Name == "" || t.Prompt == "" {
			return nil, fmt.Errorf("template catalogue: incomplete entry %+v", t)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("template catalogue: duplicate id %d", t.ID)
		}
		seen[t.ID] = true
	}
	sort.Slice(tpls, func(i, j int) bool { return tpls[i].ID < tpls[j].ID })
	return tpls, nil
}

// List returns a copy of the catalogue ordered by id.
func List() []model.PromptTemplate {
	out := make([]model.PromptTemplate, len(catalogue))
	copy(out, catalogue)
	return out
}

// Get looks up a template by id.
func Get(id int) (model.PromptTemplate, bool) {
	for _, t := range catalogue {
		if t.ID == id {
			return t, true
		}
	}
	return model.PromptTemplate{}, false
}

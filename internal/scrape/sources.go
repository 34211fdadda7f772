package scrape

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/venture-cli/internal/model"
)

//go:embed sources.yaml
var sourcesYAML []byte

type sourceTable struct {
	Categories map[string]struct {
		Sources    []string `yaml:"sources"`
		Subreddits []string `yaml:"subreddits"`
	} `yaml:"categories"`
}

// categorySources holds the parsed per-category source configuration.
type categorySources struct {
	sources    map[model.Category][]model.EvidenceSource
	subreddits map[model.Category][]string
}

// loadSources parses the embedded source table.
func loadSources() (*categorySources, error) {
	var table sourceTable
	if err := yaml.Unmarshal(sourcesYAML, &table); err != nil {
		return nil, eris.Wrap(err, "scrape: parse sources table")
	}

	cs := &categorySources{
		sources:    make(map[model.Category][]model.EvidenceSource),
		subreddits: make(map[model.Category][]string),
	}
	for raw, entry := range table.Categories {
		cat, err := model.ParseCategory(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "scrape: sources table category %q", raw)
		}
		for _, s := range entry.Sources {
			cs.sources[cat] = append(cs.sources[cat], model.EvidenceSource(s))
		}
		cs.subreddits[cat] = entry.Subreddits
	}
	return cs, nil
}

// forCategory returns the enabled source list for a category, falling back
// to the mobile_app set for anything unknown.
func (cs *categorySources) forCategory(cat model.Category) []model.EvidenceSource {
	if s, ok := cs.sources[cat]; ok {
		return s
	}
	return cs.sources[model.CategoryMobileApp]
}

func (cs *categorySources) subredditsFor(cat model.Category) []string {
	if s, ok := cs.subreddits[cat]; ok {
		return s
	}
	return cs.subreddits[model.CategoryMobileApp]
}

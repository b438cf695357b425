// Package concepts derives the ranked concept list that drives
// recommendation queries from a set of reference materials.
package concepts

import (
	"sort"

	"github.com/oerhub/discovery/model"
)

const (
	// conceptsPerDocument caps how many top-ranked concepts each reference
	// document contributes before frequencies are merged.
	conceptsPerDocument = 30

	// genericHead is the number of highest-frequency concepts dropped as
	// overly generic, provided at least minDistinct distinct concepts exist.
	genericHead = 2
	minDistinct = 3

	// maxConcepts caps the final ranked list.
	maxConcepts = 20
)

// Weighted is one extracted concept with its query weight.
type Weighted struct {
	Name   string
	Count  int
	Weight float64
}

// Extract merges the concept annotations of the reference materials into a
// ranked list. Each document contributes its top 30 concepts (the index
// already orders them by pagerank); occurrences are counted per distinct
// name and sorted by descending frequency with first-seen order breaking
// ties. The two most frequent names are dropped as generic when at least
// three distinct names exist, and at most the next 20 are kept. Weight is
// frequency divided by the number of reference documents.
func Extract(refs []model.MaterialRecord) []Weighted {
	if len(refs) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string // first-seen order for stable tie-breaking

	for _, ref := range refs {
		wiki := ref.Wikipedia
		if len(wiki) > conceptsPerDocument {
			wiki = wiki[:conceptsPerDocument]
		}
		for _, concept := range wiki {
			name := concept.Name
			if name == "" {
				continue
			}
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	ranked := make([]Weighted, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, Weighted{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) >= minDistinct {
		ranked = ranked[genericHead:]
	}
	if len(ranked) > maxConcepts {
		ranked = ranked[:maxConcepts]
	}

	for i := range ranked {
		ranked[i].Weight = float64(ranked[i].Count) / float64(len(refs))
	}
	return ranked
}

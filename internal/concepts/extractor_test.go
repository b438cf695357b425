package concepts

import (
	"fmt"
	"testing"

	"github.com/oerhub/discovery/model"
)

func refWithConcepts(names ...string) model.MaterialRecord {
	var wiki []model.WikipediaConcept
	for _, name := range names {
		wiki = append(wiki, model.WikipediaConcept{Name: name})
	}
	return model.MaterialRecord{Wikipedia: wiki}
}

func TestExtract(t *testing.T) {
	t.Run("no reference documents", func(t *testing.T) {
		if got := Extract(nil); got != nil {
			t.Errorf("Extract(nil) = %v, want nil", got)
		}
	})

	t.Run("drops two most frequent when three distinct exist", func(t *testing.T) {
		refs := []model.MaterialRecord{
			refWithConcepts("Algebra", "Calculus", "Geometry"),
			refWithConcepts("Algebra", "Calculus"),
			refWithConcepts("Algebra"),
		}
		got := Extract(refs)
		// Counts: Algebra 3, Calculus 2, Geometry 1 -> drop Algebra, Calculus.
		if len(got) != 1 {
			t.Fatalf("len = %d, want 1 (%v)", len(got), got)
		}
		if got[0].Name != "Geometry" || got[0].Count != 1 {
			t.Errorf("got %+v, want Geometry with count 1", got[0])
		}
		if want := 1.0 / 3.0; got[0].Weight != want {
			t.Errorf("Weight = %v, want %v", got[0].Weight, want)
		}
	})

	t.Run("fewer than three distinct keeps all", func(t *testing.T) {
		refs := []model.MaterialRecord{
			refWithConcepts("Algebra", "Calculus"),
			refWithConcepts("Algebra"),
		}
		got := Extract(refs)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].Name != "Algebra" || got[1].Name != "Calculus" {
			t.Errorf("order = [%s %s], want [Algebra Calculus]", got[0].Name, got[1].Name)
		}
	})

	t.Run("ties preserve first-seen order", func(t *testing.T) {
		refs := []model.MaterialRecord{
			refWithConcepts("B", "A", "C", "D"),
		}
		got := Extract(refs)
		// All count 1; top two (B, A) dropped, remainder keeps input order.
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2 (%v)", len(got), got)
		}
		if got[0].Name != "C" || got[1].Name != "D" {
			t.Errorf("order = [%s %s], want [C D]", got[0].Name, got[1].Name)
		}
	})

	t.Run("caps at twenty after dropping the head", func(t *testing.T) {
		var names []string
		for i := 0; i < 40; i++ {
			names = append(names, fmt.Sprintf("concept-%02d", i))
		}
		// Only the top 30 per document are considered.
		refs := []model.MaterialRecord{refWithConcepts(names...)}
		got := Extract(refs)
		if len(got) != 20 {
			t.Fatalf("len = %d, want 20", len(got))
		}
		if got[0].Name != "concept-02" {
			t.Errorf("first kept = %s, want concept-02", got[0].Name)
		}
		if got[19].Name != "concept-21" {
			t.Errorf("last kept = %s, want concept-21", got[19].Name)
		}
	})

	t.Run("empty names ignored", func(t *testing.T) {
		refs := []model.MaterialRecord{
			refWithConcepts("", "Algebra", ""),
		}
		got := Extract(refs)
		if len(got) != 1 || got[0].Name != "Algebra" {
			t.Errorf("got %v, want only Algebra", got)
		}
	})
}

// Package timeline turns extracted facts into renderable timeline entries.
package timeline

import (
	"sort"

	"dossier-be/internal/entity"
)

const (
	DefaultCardTitle    = "Event"
	DefaultCardSubtitle = "Unspecified actors"
	EmptyNotice         = "No dated facts have been extracted for this case file."

	dateLayout = "2006-01-02"
)

type Entry struct {
	Title        string `json:"title"`
	CardTitle    string `json:"card_title"`
	CardSubtitle string `json:"card_subtitle"`
	Body         string `json:"body"`
}

// Project maps every dated fact to an entry, keeping input order.
// Undated facts are skipped. The result is never nil.
func Project(facts []*entity.Fact) []Entry {
	entries := make([]Entry, 0, len(facts))
	for _, f := range facts {
		if f == nil || f.EventDate == nil {
			continue
		}
		entries = append(entries, Entry{
			Title:        f.EventDate.Format(dateLayout),
			CardTitle:    orDefault(f.EventType, DefaultCardTitle),
			CardSubtitle: orDefault(f.Actors, DefaultCardSubtitle),
			Body:         orDefault(f.Description, ""),
		})
	}
	return entries
}

// SortFacts orders facts by event date ascending, undated last. Equal keys keep
// their relative order.
func SortFacts(facts []*entity.Fact) {
	sort.SliceStable(facts, func(i, j int) bool {
		a, b := facts[i].EventDate, facts[j].EventDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

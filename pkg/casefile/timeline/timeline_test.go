package timeline

import (
	"testing"
	"time"

	"dossier-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

func str(s string) *string { return &s }

func fact(d *time.Time, desc string) *entity.Fact {
	return &entity.Fact{Id: uuid.New(), CaseFileId: uuid.New(), EventDate: d, Description: str(desc)}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name      string
		facts     []*entity.Fact
		wantTitle []string
	}{
		{
			name:      "empty input",
			facts:     nil,
			wantTitle: []string{},
		},
		{
			name:      "undated facts are dropped",
			facts:     []*entity.Fact{fact(nil, "a"), fact(nil, "b")},
			wantTitle: []string{},
		},
		{
			name:      "input order is kept",
			facts:     []*entity.Fact{fact(date("2024-05-01"), "late"), fact(date("2023-01-01"), "early")},
			wantTitle: []string{"2024-05-01", "2023-01-01"},
		},
		{
			name:      "mixed",
			facts:     []*entity.Fact{fact(date("2024-01-15"), "x"), fact(nil, "y"), fact(date("2024-03-01"), "z")},
			wantTitle: []string{"2024-01-15", "2024-03-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Project(tt.facts)
			require.NotNil(t, entries)
			assert.LessOrEqual(t, len(entries), len(tt.facts))

			titles := make([]string, 0, len(entries))
			for _, e := range entries {
				titles = append(titles, e.Title)
			}
			assert.Equal(t, tt.wantTitle, titles)
		})
	}
}

func TestProjectFieldDefaults(t *testing.T) {
	f := &entity.Fact{EventDate: date("2024-02-29")}

	entries := Project([]*entity.Fact{f})

	require.Len(t, entries, 1)
	assert.Equal(t, Entry{
		Title:        "2024-02-29",
		CardTitle:    DefaultCardTitle,
		CardSubtitle: DefaultCardSubtitle,
		Body:         "",
	}, entries[0])

	f.EventType = str("Contract signed")
	f.Actors = str("City of Lyon, ACME SA")
	f.Description = str("Framework agreement signed.")

	entries = Project([]*entity.Fact{f})
	assert.Equal(t, "Contract signed", entries[0].CardTitle)
	assert.Equal(t, "City of Lyon, ACME SA", entries[0].CardSubtitle)
	assert.Equal(t, "Framework agreement signed.", entries[0].Body)
}

func TestProjectLengthMatchesDatedCount(t *testing.T) {
	var facts []*entity.Fact
	dated := 0
	for i := 0; i < 50; i++ {
		if i%3 == 0 {
			facts = append(facts, fact(nil, "undated"))
			continue
		}
		dated++
		facts = append(facts, fact(date("2020-01-01"), "dated"))
	}

	assert.Len(t, Project(facts), dated)
}

func TestSortFactsIsStableWithNullsLast(t *testing.T) {
	a := fact(nil, "a")
	b := fact(date("2024-03-01"), "b")
	c := fact(nil, "c")
	d := fact(date("2024-01-15"), "d")
	e := fact(date("2024-01-15"), "e")

	facts := []*entity.Fact{a, b, c, d, e}
	SortFacts(facts)

	assert.Equal(t, []*entity.Fact{d, e, b, a, c}, facts)
}

func TestSortThenProject(t *testing.T) {
	facts := []*entity.Fact{
		fact(nil, "undated"),
		fact(date("2024-03-01"), "march"),
		fact(date("2024-01-15"), "january"),
	}

	SortFacts(facts)
	entries := Project(facts)

	require.Len(t, entries, 2)
	assert.Equal(t, "2024-01-15", entries[0].Title)
	assert.Equal(t, "2024-03-01", entries[1].Title)
}

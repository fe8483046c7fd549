// Package query filters and orders catalog records for display.
package query

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

// SortKey names a display order.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortTitleAsc  SortKey = "title-asc"
	SortTitleDesc SortKey = "title-desc"
)

// SortKeys lists the recognized keys in menu order.
var SortKeys = []SortKey{SortNewest, SortOldest, SortTitleAsc, SortTitleDesc}

// ParseSortKey reports whether s is a recognized key.
func ParseSortKey(s string) (SortKey, bool) {
	k := SortKey(strings.TrimSpace(s))
	return k, slices.Contains(SortKeys, k)
}

// Pipeline compares titles with the collation rules of one language.
type Pipeline struct {
	lang language.Tag
}

func New(lang language.Tag) *Pipeline {
	return &Pipeline{lang: lang}
}

var english = New(language.English)

// Apply runs the English pipeline.
func Apply(records []models.Record, term string, key SortKey) []models.Record {
	return english.Apply(records, term, key)
}

// Apply returns the records matching term, ordered by key. An unrecognized
// key keeps the filtered order. records is never modified.
func (p *Pipeline) Apply(records []models.Record, term string, key SortKey) []models.Record {
	out := p.Filter(records, term)
	p.sort(out, key)
	return out
}

// Filter keeps records whose title, description or tag contains the
// lower-cased term. A blank term keeps everything. The result is a new slice.
func (p *Pipeline) Filter(records []models.Record, term string) []models.Record {
	lower := cases.Lower(p.lang)
	needle := lower.String(strings.TrimSpace(term))

	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if needle == "" ||
			strings.Contains(lower.String(rec.Title), needle) ||
			strings.Contains(lower.String(rec.Description), needle) ||
			strings.Contains(lower.String(rec.Tag), needle) {
			out = append(out, rec)
		}
	}
	return out
}

func (p *Pipeline) sort(records []models.Record, key SortKey) {
	switch key {
	case SortNewest:
		slices.SortStableFunc(records, func(a, b models.Record) int { return cmp.Compare(b.CreatedAt, a.CreatedAt) })
	case SortOldest:
		slices.SortStableFunc(records, func(a, b models.Record) int { return cmp.Compare(a.CreatedAt, b.CreatedAt) })
	case SortTitleAsc, SortTitleDesc:
		// a Collator is not safe for concurrent use
		c := collate.New(p.lang)
		dir := 1
		if key == SortTitleDesc {
			dir = -1
		}
		slices.SortStableFunc(records, func(a, b models.Record) int {
			return dir * c.CompareString(a.Title, b.Title)
		})
	}
}

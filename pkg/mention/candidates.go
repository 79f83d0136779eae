package mention

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"recipe-steps-be/pkg/document"
)

// DefaultCandidateLimit caps the dropdown when no limit is configured
const DefaultCandidateLimit = 10

// Item is one ingredient or equipment row as supplied by the host
type Item struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// Candidate is a mentionable item
type Candidate struct {
	ID             string               `json:"id"`
	RawName        string               `json:"raw_name"`
	NormalizedName string               `json:"normalized_name"`
	Kind           document.MentionKind `json:"kind"`
}

// BuildCandidates lists equipment first, then ingredients, in input order
func BuildCandidates(equipment, ingredients []Item) []Candidate {
	out := make([]Candidate, 0, len(equipment)+len(ingredients))
	for _, it := range equipment {
		out = append(out, newCandidate(it, document.KindEquipment))
	}
	for _, it := range ingredients {
		out = append(out, newCandidate(it, document.KindIngredient))
	}
	return out
}

func newCandidate(it Item, kind document.MentionKind) Candidate {
	return Candidate{
		ID:             it.ID,
		RawName:        it.Name,
		NormalizedName: document.NormalizeName(it.Name),
		Kind:           kind,
	}
}

// FilterCandidates returns at most limit items whose raw or normalized name contains
// query, ignoring case. An empty query returns the first limit items.
func FilterCandidates(items []Candidate, query string, limit int) []Candidate {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	out := make([]Candidate, 0, min(limit, len(items)))
	if query == "" {
		return append(out, items[:min(limit, len(items))]...)
	}

	q := fold(query)
	for _, c := range items {
		if len(out) >= limit {
			break
		}
		if strings.Contains(fold(c.RawName), q) || strings.Contains(fold(c.NormalizedName), q) {
			out = append(out, c)
		}
	}
	return out
}

// fold maps s to a caseless NFC form so composed and decomposed Hangul compare equal
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reach-radar/models"
)

func TestMatchIngredient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ing      models.Ingredient
		entry    models.SubstanceEntry
		expected MatchKind
	}{
		{
			name:     "cas match wins regardless of name dissimilarity",
			ing:      models.Ingredient{Name: "Stuff A", CasNumber: "7439-92-1"},
			entry:    models.SubstanceEntry{Name: "Lead", CasNumber: "7439-92-1"},
			expected: CasMatch,
		},
		{
			name:     "cas comparison ignores case and surrounding whitespace",
			ing:      models.Ingredient{Name: "Foo", CasNumber: "  117-81-7 "},
			entry:    models.SubstanceEntry{Name: "Bar", CasNumber: "117-81-7"},
			expected: CasMatch,
		},
		{
			name:     "cas mismatch suppresses name fallback even for identical names",
			ing:      models.Ingredient{Name: "Lead", CasNumber: "111-11-1"},
			entry:    models.SubstanceEntry{Name: "Lead", CasNumber: "7439-92-1"},
			expected: NoMatch,
		},
		{
			name:     "missing cas on one side falls through to name comparison",
			ing:      models.Ingredient{Name: "Lead"},
			entry:    models.SubstanceEntry{Name: "Lead", CasNumber: "7439-92-1"},
			expected: NameMatch,
		},
		{
			name:     "four character name is still substring eligible",
			ing:      models.Ingredient{Name: "Lead"},
			entry:    models.SubstanceEntry{Name: "Lead compounds"},
			expected: NameMatch,
		},
		{
			name:     "short name requires full equality",
			ing:      models.Ingredient{Name: "ABC"},
			entry:    models.SubstanceEntry{Name: "ABCDEF"},
			expected: NoMatch,
		},
		{
			name:     "short name full equality matches",
			ing:      models.Ingredient{Name: "D5"},
			entry:    models.SubstanceEntry{Name: "d5"},
			expected: NameMatch,
		},
		{
			name:     "bidirectional containment, entry inside ingredient",
			ing:      models.Ingredient{Name: "Titanium dioxide"},
			entry:    models.SubstanceEntry{Name: "Dioxide"},
			expected: NameMatch,
		},
		{
			name:     "bidirectional containment, ingredient inside entry",
			ing:      models.Ingredient{Name: "DEHP"},
			entry:    models.SubstanceEntry{Name: "Bis(2-ethylhexyl) phthalate (DEHP)", CasNumber: "117-81-7"},
			expected: NameMatch,
		},
		{
			name:     "unrelated names do not match",
			ing:      models.Ingredient{Name: "Glycerin"},
			entry:    models.SubstanceEntry{Name: "Formaldehyde", CasNumber: "50-00-0"},
			expected: NoMatch,
		},
		{
			name:     "empty names never match",
			ing:      models.Ingredient{Name: "   "},
			entry:    models.SubstanceEntry{Name: ""},
			expected: NoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MatchIngredient(tt.ing, tt.entry))
		})
	}
}

// Der Namensvergleich ist symmetrisch: Seiten tauschen ändert das Ergebnis
// nicht.
func TestMatchIngredientSymmetry(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"Titanium dioxide", "Dioxide"},
		{"DEHP", "Bis(2-ethylhexyl) phthalate (DEHP)"},
		{"Lead", "Unrelated"},
		{"ABC", "ABCDEF"},
		{"Boric acid", "boric ACID"},
	}

	for _, pair := range pairs {
		forward := MatchIngredient(
			models.Ingredient{Name: pair[0]},
			models.SubstanceEntry{Name: pair[1]},
		)
		backward := MatchIngredient(
			models.Ingredient{Name: pair[1]},
			models.SubstanceEntry{Name: pair[0]},
		)
		assert.Equal(t, forward, backward, "pair %q / %q", pair[0], pair[1])
	}
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxIngredients(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, MaxIngredients("free"))
	assert.Equal(t, 25, MaxIngredients("starter"))
	assert.Equal(t, 100, MaxIngredients("pro"))
	assert.Equal(t, -1, MaxIngredients("enterprise"))

	// Unbekannte oder leere Pläne fallen aufs Free-Kontingent zurück.
	assert.Equal(t, 5, MaxIngredients("legacy-gold"))
	assert.Equal(t, 5, MaxIngredients(""))
}

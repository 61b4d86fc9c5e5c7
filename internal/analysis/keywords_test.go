package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywords_Match(t *testing.T) {
	k := NewKeywords(nil)
	assert.Equal(t, DefaultErrorWords, k.Words())

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"english", "some error", "error", true},
		{"french", "une erreur est survenue", "erreur", true},
		{"problem", "a problem occurred", "problem", true},
		{"accented", "il y a eu un gros problème", "problème", true},
		{"combining accent", "gros proble\u0300me", "problème", true},
		{"case sensitive", "Erreur", "", false},
		{"no keyword", "everything is fine", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := k.Match(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywords_Custom(t *testing.T) {
	k := NewKeywords([]string{" Fehler ", "", "fout"})
	assert.Equal(t, []string{"Fehler", "fout"}, k.Words())

	_, ok := k.Match("some error")
	assert.False(t, ok)
	w, ok := k.Match("Fehler beim Speichern")
	assert.True(t, ok)
	assert.Equal(t, "Fehler", w)
}

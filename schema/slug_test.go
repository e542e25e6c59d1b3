package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"Color", "color"},
		{"Purchase Date", "purchase_date"},
		{"Café Größe", "cafe_groe"},
		{"  spaced   out  ", "spaced_out"},
		{"Weight (kg)", "weight_kg"},
		{"__already__keyed__", "already_keyed"},
		{"2nd Shelf!", "2nd_shelf"},
		{"!!!", "field"},
		{"", "field"},
		{"日本語", "field"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.label), "Slugify(%q)", c.label)
	}
}

func TestEnsureUniqueKey(t *testing.T) {
	existing := map[string]bool{"color": true, "color_2": true}

	assert.Equal(t, "size", EnsureUniqueKey(existing, "size"))
	assert.Equal(t, "color_3", EnsureUniqueKey(existing, "color"))
	assert.Equal(t, "color", EnsureUniqueKey(map[string]bool{}, "color"))
}

package deal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRegion(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Region: Napa Valley", "Napa Valley"},
		{"Appellation: Margaux", "Margaux"},
		{"From Willamette Valley comes this Pinot", "Willamette Valley"},
		{"A classic Bordeaux blend", "Bordeaux"},
		{"This Napa Valley stunner", "Napa Valley"},
		{"A lovely table wine", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractRegion(tc.text), "text: %q", tc.text)
	}
}

func TestExtractRegionLabelWins(t *testing.T) {
	got := ExtractRegion("From Bordeaux. Region: Rioja")
	assert.Equal(t, "Rioja", got)
}

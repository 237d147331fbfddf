package deal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGenericTitle(t *testing.T) {
	generic := []string{
		"",
		"   ",
		"Last Bottle",
		"LastBottle",
		"One Bottle At A Time",
		"Great Wine. Insane Prices.",
		"Today's Offer",
		"Deal of the Day",
		"Loading...",
		"last   bottle", // spacing variant
	}
	for _, title := range generic {
		assert.True(t, IsGenericTitle(title), "title: %q", title)
	}

	real := []string{
		"Caymus Cabernet Sauvignon",
		"2019 Chateau Margaux",
		"Dom Pérignon 2012",
	}
	for _, title := range real {
		assert.False(t, IsGenericTitle(title), "title: %q", title)
	}
}

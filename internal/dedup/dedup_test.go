package dedup

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"sjsage522/winedealworker/internal/deal"
)

func testDeal(title, vintage, price string) *deal.Deal {
	d := &deal.Deal{Title: title, Vintage: vintage}
	if price != "" {
		p := decimal.RequireFromString(price)
		d.Price = &p
	}
	return d
}

func TestObserveFullCycle(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	clock := base
	d := NewDeduplicator(
		WithWindow(300*time.Second),
		withClock(func() time.Time { return clock }),
	)

	candidate := testDeal("Caymus Cabernet", "2019", "45.99")

	// t=0: first sighting flows through.
	assert.Equal(t, New, d.Observe(candidate))

	// t=100s: inside the window, suppressed.
	clock = base.Add(100 * time.Second)
	assert.Equal(t, Duplicate, d.Observe(candidate))

	// t=400s: the window is measured from first sighting, so this is new
	// again even though the duplicate at t=100s was more recent.
	clock = base.Add(400 * time.Second)
	assert.Equal(t, New, d.Observe(candidate))
}

func TestObserveFixedWindowNoRefresh(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	clock := base
	d := NewDeduplicator(
		WithWindow(300*time.Second),
		withClock(func() time.Time { return clock }),
	)

	candidate := testDeal("Barolo Riserva", "2017", "62.50")
	assert.Equal(t, New, d.Observe(candidate))

	// Repeated duplicates must not slide the window forward.
	for _, offset := range []time.Duration{60, 120, 180, 240, 299} {
		clock = base.Add(offset * time.Second)
		assert.Equal(t, Duplicate, d.Observe(candidate))
	}

	clock = base.Add(301 * time.Second)
	assert.Equal(t, New, d.Observe(candidate))
}

func TestObserveDistinctIdentities(t *testing.T) {
	d := NewDeduplicator()

	assert.Equal(t, New, d.Observe(testDeal("Caymus Cabernet", "2019", "45.99")))

	// Different vintage, different price, or missing price each form a
	// distinct identity.
	assert.Equal(t, New, d.Observe(testDeal("Caymus Cabernet", "2020", "45.99")))
	assert.Equal(t, New, d.Observe(testDeal("Caymus Cabernet", "2019", "39.99")))
	assert.Equal(t, New, d.Observe(testDeal("Caymus Cabernet", "2019", "")))

	// Accent and punctuation noise folds to the same identity.
	assert.Equal(t, Duplicate, d.Observe(testDeal("  Caymus   Cabernet!  ", "2019", "45.99")))
}

func TestObserveNormalizesSubFloorPrice(t *testing.T) {
	d := NewDeduplicator()

	// An implausibly low price is dropped from the candidate, not
	// forwarded; its identity keys as price-unknown.
	candidate := testDeal("Pocket Change Pinot", "2021", "2.00")
	assert.Equal(t, New, d.Observe(candidate))
	assert.Nil(t, candidate.Price)

	assert.Equal(t, Duplicate, d.Observe(testDeal("Pocket Change Pinot", "2021", "")))
}

func TestObserveRejectsUnusableIdentity(t *testing.T) {
	d := NewDeduplicator()

	assert.Equal(t, Rejected, d.Observe(nil))
	assert.Equal(t, Rejected, d.Observe(testDeal("", "", "45.99")))
	assert.Equal(t, Rejected, d.Observe(testDeal("Last Bottle", "", "45.99")))
	assert.Zero(t, d.Len())
}

func TestObserveSweepBoundsMemory(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	clock := base
	d := NewDeduplicator(
		WithWindow(300*time.Second),
		WithMaxEntries(10),
		withClock(func() time.Time { return clock }),
	)

	// Fill past the cap with entries that age beyond twice the window.
	for i := 0; i < 10; i++ {
		assert.Equal(t, New, d.Observe(testDeal(fmt.Sprintf("Old Wine Number %d", i), "2019", "45.99")))
	}
	assert.Equal(t, 10, d.Len())

	clock = base.Add(700 * time.Second)
	assert.Equal(t, New, d.Observe(testDeal("Fresh Arrival", "2022", "29.99")))

	// The sweep dropped everything older than 2x the window.
	assert.Equal(t, 1, d.Len())
}

func TestSeen(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	clock := base
	d := NewDeduplicator(
		WithWindow(300*time.Second),
		withClock(func() time.Time { return clock }),
	)

	candidate := testDeal("Caymus Cabernet", "2019", "45.99")
	assert.False(t, d.Seen(candidate))

	d.Observe(candidate)
	assert.True(t, d.Seen(candidate))

	// Seen never mutates: repeated checks after expiry stay false.
	clock = base.Add(400 * time.Second)
	assert.False(t, d.Seen(candidate))
	assert.False(t, d.Seen(nil))
}

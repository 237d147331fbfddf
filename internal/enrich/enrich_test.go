package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/winedealworker/internal/deal"
)

type mockProvider struct {
	queries []string
	results map[string]*RawResult
	err     error
	delay   time.Duration
}

var _ RatingProvider = (*mockProvider)(nil)

func (m *mockProvider) Search(ctx context.Context, query string) (*RawResult, error) {
	m.queries = append(m.queries, query)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.results[query], nil
}

func testDeal(title, vintage string) *deal.Deal {
	price := decimal.NewFromFloat(45.99)
	return &deal.Deal{
		Title:        title,
		Price:        &price,
		Vintage:      vintage,
		BottleSizeML: 750,
		URL:          "https://www.lastbottlewines.com/wine/123",
	}
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "Caymus Cabernet", SearchQuery("2019 Caymus Cabernet"))
	assert.Equal(t, "Caymus", SearchQuery("Caymus Red Wine 2019"))
	assert.Equal(t, "Veuve Clicquot", SearchQuery("Veuve Clicquot Sparkling"))
	assert.Equal(t, "", SearchQuery("Red Wine"))
}

func TestEnrichQueriesVintageAndOverall(t *testing.T) {
	provider := &mockProvider{
		results: map[string]*RawResult{
			"Caymus Cabernet 2019": {HTML: "4.5/5 from 320 ratings $65.00"},
			"Caymus Cabernet":      {HTML: "4.2/5 from 1,500 ratings $59.00"},
		},
	}
	adapter := NewAdapter(provider)

	enriched := adapter.Enrich(context.Background(), testDeal("Caymus Cabernet", "2019"))
	require.NotNil(t, enriched)
	assert.Equal(t, []string{"Caymus Cabernet 2019", "Caymus Cabernet"}, provider.queries)

	require.NotNil(t, enriched.VintageRating)
	assert.Equal(t, 4.5, enriched.VintageRating.Rating)
	assert.Equal(t, 320, enriched.VintageRating.ReviewCount)

	require.NotNil(t, enriched.OverallRating)
	assert.Equal(t, 4.2, enriched.OverallRating.Rating)

	assert.True(t, enriched.HasRatingData())
	assert.Equal(t, 4.5, enriched.BestRating())
}

func TestEnrichWithoutVintage(t *testing.T) {
	provider := &mockProvider{
		results: map[string]*RawResult{
			"Everyday Blend": {HTML: "3.9/5 from 120 ratings"},
		},
	}
	adapter := NewAdapter(provider)

	enriched := adapter.Enrich(context.Background(), testDeal("Everyday Blend", ""))
	assert.Equal(t, []string{"Everyday Blend"}, provider.queries)
	assert.Nil(t, enriched.VintageRating)
	require.NotNil(t, enriched.OverallRating)
	assert.Equal(t, 3.9, enriched.OverallRating.Rating)
}

func TestEnrichProviderFailureNeverBlocksDeal(t *testing.T) {
	adapter := NewAdapter(&mockProvider{err: errors.New("rate limited")})

	enriched := adapter.Enrich(context.Background(), testDeal("Caymus Cabernet", "2019"))
	require.NotNil(t, enriched)
	assert.False(t, enriched.HasRatingData())
	assert.Equal(t, "Caymus Cabernet", enriched.Title)
}

func TestEnrichTimeoutBudget(t *testing.T) {
	provider := &mockProvider{delay: 200 * time.Millisecond}
	adapter := NewAdapter(provider, WithTimeout(20*time.Millisecond))

	start := time.Now()
	enriched := adapter.Enrich(context.Background(), testDeal("Slow Lookup Estate", "2019"))
	elapsed := time.Since(start)

	require.NotNil(t, enriched)
	assert.False(t, enriched.HasRatingData())
	assert.Less(t, elapsed, 150*time.Millisecond)
}

func TestEnrichNilProvider(t *testing.T) {
	adapter := NewAdapter(nil)
	enriched := adapter.Enrich(context.Background(), testDeal("Caymus Cabernet", "2019"))
	require.NotNil(t, enriched)
	assert.False(t, enriched.HasRatingData())
}

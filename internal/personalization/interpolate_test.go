package personalization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var interpNow = time.Date(2025, time.October, 3, 9, 0, 0, 0, time.UTC) // fall

func TestInterpolatePartnerName(t *testing.T) {
	ctx := &Context{Partner: Partner{Name: "Alex"}}
	got := Interpolate("Surprise {partner_name} today", ctx, interpNow)
	assert.Equal(t, "Surprise Alex today", got)
}

func TestInterpolatePartnerNameFallback(t *testing.T) {
	ctx := &Context{}
	got := Interpolate("Surprise {partner_name} today", ctx, interpNow)
	assert.Equal(t, "Surprise your partner today", got)
}

func TestInterpolateFallbackChain(t *testing.T) {
	// Onboarding data wins over extracted keywords.
	ctx := &Context{
		Partner: Partner{
			WantsNeeds: WantsNeeds{FavoriteActivities: []string{"climbing"}},
		},
		Keywords: map[Category][]string{
			CategoryActivities: {"hiking"},
		},
	}
	got := Interpolate("Join them in {favorite_activity}", ctx, interpNow)
	assert.Equal(t, "Join them in climbing", got)

	// Without onboarding, keywords supply the value.
	ctx.Partner.WantsNeeds.FavoriteActivities = nil
	got = Interpolate("Join them in {favorite_activity}", ctx, interpNow)
	assert.Equal(t, "Join them in hiking", got)
}

func TestInterpolateUnresolvedLeftVerbatim(t *testing.T) {
	ctx := &Context{Partner: Partner{Name: "Alex"}}
	got := Interpolate("A {mentioned_interest} gift for {partner_name}", ctx, interpNow)
	assert.Equal(t, "A {mentioned_interest} gift for Alex", got)
}

func TestInterpolateSeason(t *testing.T) {
	ctx := &Context{}
	got := Interpolate("Plan a {season} outing", ctx, interpNow)
	assert.Equal(t, "Plan a fall outing", got)
}

func TestInterpolateCuisineFromKeywords(t *testing.T) {
	ctx := &Context{
		Keywords: map[Category][]string{
			CategoryFoods: {"thai"},
		},
	}
	got := Interpolate("Order {favorite_cuisine} tonight", ctx, interpNow)
	assert.Equal(t, "Order thai tonight", got)
}

func TestSeasonOf(t *testing.T) {
	assert.Equal(t, SeasonSpring, SeasonOf(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SeasonSummer, SeasonOf(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SeasonFall, SeasonOf(time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SeasonWinter, SeasonOf(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SeasonWinter, SeasonOf(time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC)))
}

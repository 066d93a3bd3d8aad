package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerr "auctionhunter/pkg/errors"
)

const auctionFragment = `
	<div class="s-item">
		<a class="s-item__link" href="https://www.ebay.com/itm/123456789?hash=abc"></a>
		<div class="s-item__title">ThinkPad X1 Carbon Gen 9 i7 16GB</div>
		<span class="SECONDARY_INFO">Pre-Owned</span>
		<span class="s-item__price">$180.00</span>
		<span class="s-item__bids">27 bids</span>
		<span class="s-item__time-left">2h 14m left</span>
		<span class="s-item__shipping">+$15.00 delivery</span>
		<span class="s-item__seller-info-text">techsurplus (12,453) 99.7%</span>
	</div>
`

const fixedPriceFragment = `
	<div class="s-item">
		<a class="s-item__link" href="https://www.ebay.com/itm/555000111"></a>
		<div class="s-item__title">Nintendo Switch OLED Console</div>
		<span class="SECONDARY_INFO">Brand New</span>
		<span class="s-item__price">$289.99 or Best Offer</span>
		<span class="s-item__shipping">Free delivery</span>
	</div>
`

func TestParseAuctionListing(t *testing.T) {
	p := NewParser()

	l, err := p.Parse(Raw{Source: "ebay", Fragment: auctionFragment})
	require.NoError(t, err)

	assert.Equal(t, "123456789", l.ID)
	assert.Equal(t, "ebay", l.Source)
	assert.Equal(t, "ThinkPad X1 Carbon Gen 9 i7 16GB", l.Title)
	assert.Equal(t, Cents(18000), l.CurrentPrice)
	assert.Equal(t, Cents(1500), l.ShippingCost)
	assert.Equal(t, ConditionUsed, l.Condition)
	require.NotNil(t, l.BidCount)
	assert.Equal(t, 27, *l.BidCount)
	require.NotNil(t, l.TimeRemaining)
	assert.Equal(t, "2h 14m left", *l.TimeRemaining)
	assert.Equal(t, "https://www.ebay.com/itm/123456789?hash=abc", l.URL)
	assert.False(t, l.FetchedAt.IsZero())
}

func TestParseFixedPriceListing(t *testing.T) {
	p := NewParser()

	l, err := p.Parse(Raw{Source: "ebay", Fragment: fixedPriceFragment})
	require.NoError(t, err)

	// Auction-style fields do not apply to fixed-price listings
	assert.Nil(t, l.BidCount)
	assert.Nil(t, l.TimeRemaining)
	assert.Equal(t, Cents(28999), l.CurrentPrice)
	assert.Equal(t, Cents(0), l.ShippingCost)
	assert.Equal(t, ConditionNew, l.Condition)
}

func TestParseFailureWhenTitleAndPriceMissing(t *testing.T) {
	p := NewParser()

	fragment := `
		<div class="s-item">
			<span class="s-item__price">Best Offer</span>
		</div>
	`
	l, err := p.Parse(Raw{Source: "ebay", Fragment: fragment})
	assert.Nil(t, l)
	assert.True(t, pkgerr.IsParse(err))
}

func TestParseSurvivesMissingPriceWithTitle(t *testing.T) {
	p := NewParser()

	fragment := `
		<div class="s-item">
			<a class="s-item__link" href="https://www.ebay.com/itm/42"></a>
			<div class="s-item__title">Mystery Lot</div>
			<span class="s-item__price">Best Offer</span>
		</div>
	`
	l, err := p.Parse(Raw{Source: "ebay", Fragment: fragment})
	require.NoError(t, err)
	assert.Equal(t, Cents(0), l.CurrentPrice)
	assert.Equal(t, ConditionUnknown, l.Condition)
}

func TestParseSkipsPromotionalTitle(t *testing.T) {
	p := NewParser()

	fragment := `
		<div class="s-item">
			<div class="s-item__title">Shop on eBay</div>
		</div>
	`
	_, err := p.Parse(Raw{Source: "ebay", Fragment: fragment})
	assert.True(t, pkgerr.IsParse(err))
}

func TestExtractID(t *testing.T) {
	assert.Equal(t, "987", extractID("https://www.ebay.com/itm/987?x=1", ""))
	assert.Equal(t, "654", extractID("https://www.ebay.com/x?itm=654", ""))

	// No item number in the URL: stable title-hash fallback
	a := extractID("", "some title")
	b := extractID("", "some title")
	c := extractID("", "other title")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, len(a) > 1)
}

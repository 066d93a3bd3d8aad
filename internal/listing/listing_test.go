package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCents(t *testing.T) {
	testCases := []struct {
		text     string
		expected Cents
		ok       bool
	}{
		{"$249.99", 24999, true},
		{"$1,234.56", 123456, true},
		{"249.99", 24999, true},
		{"$180.00 or Best Offer", 18000, true},
		{"$218.50 to $300.00", 21850, true},
		{"US $99.00", 9900, true},
		{"$0.99", 99, true},
		{"Best Offer", 0, false},
		{"", 0, false},
		{"Free", 0, false},
	}

	for _, tc := range testCases {
		price, err := ParseCents(tc.text)
		if tc.ok {
			assert.NoError(t, err, tc.text)
			assert.Equal(t, tc.expected, price, tc.text)
		} else {
			assert.Error(t, err, tc.text)
		}
	}
}

func TestCentsPercent(t *testing.T) {
	assert.Equal(t, Cents(1800), Cents(18000).Percent(10))
	// Rounds to the nearest cent
	assert.Equal(t, Cents(2340), Cents(17999).Percent(13))
	assert.Equal(t, Cents(0), Cents(0).Percent(13))
}

func TestCentsString(t *testing.T) {
	assert.Equal(t, "$18.00", Cents(1800).String())
	assert.Equal(t, "$0.05", Cents(5).String())
}

func TestConditionFromText(t *testing.T) {
	testCases := []struct {
		text     string
		expected Condition
	}{
		{"Brand New", ConditionNew},
		{"New with tags", ConditionNew},
		{"Open Box", ConditionUsed},
		{"Pre-Owned", ConditionUsed},
		{"Certified - Refurbished", ConditionUsed},
		{"Used - Good", ConditionUsed},
		{"For parts or not working", ConditionForParts},
		{"PARTS ONLY", ConditionForParts},
		{"Salvage", ConditionForParts},
		{"See description", ConditionUnknown},
		{"", ConditionUnknown},
		// Declaration order wins: "for parts" precedes "new"
		{"New - for parts", ConditionForParts},
		// "renewed" must not fall through to "new"
		{"Renewed", ConditionUsed},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ConditionFromText(tc.text), tc.text)
	}
}

func TestListingKey(t *testing.T) {
	l := &Listing{ID: "123456789", Source: "ebay"}
	assert.Equal(t, "ebay:123456789", l.Key())
}

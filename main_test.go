package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhunter/internal/listing"
)

func TestParseArgsDefaults(t *testing.T) {
	opts, err := parseArgs([]string{"thinkpad x1"})
	require.NoError(t, err)

	assert.Equal(t, "thinkpad x1", opts.query)
	// no profit floor by default: everything scorable is emitted
	assert.Equal(t, listing.Cents(0), opts.minProfit)
	assert.Equal(t, listing.Cents(0), opts.maxPrice)
	assert.Equal(t, listing.Condition(""), opts.condition)
	assert.False(t, opts.notify)
	assert.Equal(t, time.Duration(0), opts.interval)
}

func TestParseArgsFlags(t *testing.T) {
	opts, err := parseArgs([]string{
		"-min-profit", "30",
		"-max-price", "250.50",
		"-condition", "used",
		"-notify",
		"-interval", "15m",
		"macbook pro",
	})
	require.NoError(t, err)

	assert.Equal(t, "macbook pro", opts.query)
	assert.Equal(t, listing.Cents(3000), opts.minProfit)
	assert.Equal(t, listing.Cents(25050), opts.maxPrice)
	assert.Equal(t, listing.ConditionUsed, opts.condition)
	assert.True(t, opts.notify)
	assert.Equal(t, 15*time.Minute, opts.interval)
}

func TestParseArgsRequiresQuery(t *testing.T) {
	_, err := parseArgs([]string{"-notify"})
	assert.Error(t, err)
}

func TestParseArgsRejectsUnknownCondition(t *testing.T) {
	_, err := parseArgs([]string{"-condition", "mint", "macbook"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mint")
}

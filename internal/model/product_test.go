package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestProduct_EffectivePrice(t *testing.T) {
	t.Run("returns list price when no discount", func(t *testing.T) {
		p := Product{Price: dec("100")}
		assert.True(t, p.EffectivePrice().Equal(dec("100")))
	})

	t.Run("returns discount price when set", func(t *testing.T) {
		p := Product{Price: dec("100"), DiscountPrice: decPtr("80")}
		assert.True(t, p.EffectivePrice().Equal(dec("80")))
	})
}

func TestProduct_DiscountPercentage(t *testing.T) {
	t.Run("no discount", func(t *testing.T) {
		p := Product{Price: dec("100")}
		assert.Equal(t, 0, p.DiscountPercentage())
	})

	t.Run("20 percent off", func(t *testing.T) {
		p := Product{Price: dec("100"), DiscountPrice: decPtr("80")}
		assert.Equal(t, 20, p.DiscountPercentage())
	})

	t.Run("fractional percentage truncates", func(t *testing.T) {
		p := Product{Price: dec("150"), DiscountPrice: decPtr("100")}
		assert.Equal(t, 33, p.DiscountPercentage())
	})

	t.Run("zero price does not divide", func(t *testing.T) {
		p := Product{Price: decimal.Zero, DiscountPrice: decPtr("10")}
		assert.Equal(t, 0, p.DiscountPercentage())
	})
}

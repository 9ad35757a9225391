package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/overline-lab/backstrat/internal/types"
)

func TestBuyHoldReturn(t *testing.T) {
	t.Run("rising market", func(t *testing.T) {
		bars := walkBars(100, 102, 104, 106, 108, 110)

		got := BuyHoldReturn(bars, 100000, 0.1, 0.001)

		// 10k invested, 10 commission in, 99.9 shares, sold at 110
		// with 10.989 commission out: 978.011 on the whole portfolio.
		assert.InDelta(t, 0.00978011, got, 1e-8)
	})

	t.Run("falling market", func(t *testing.T) {
		bars := walkBars(100, 97, 94, 90)

		got := BuyHoldReturn(bars, 100000, 0.1, 0.001)

		assert.InDelta(t, -0.01017991, got, 1e-8)
	})

	t.Run("full allocation no commission", func(t *testing.T) {
		bars := walkBars(100, 105, 110)

		got := BuyHoldReturn(bars, 100000, 1.0, 0)

		assert.InDelta(t, 0.1, got, 1e-12)
	})

	t.Run("degenerate inputs", func(t *testing.T) {
		assert.Zero(t, BuyHoldReturn(nil, 100000, 0.1, 0.001))
		assert.Zero(t, BuyHoldReturn(walkBars(100), 100000, 0.1, 0.001))
		assert.Zero(t, BuyHoldReturn(walkBars(100, 110), 0, 0.1, 0.001))

		zeroPrice := []types.Bar{
			{Symbol: "TEST", Close: 0},
			{Symbol: "TEST", Close: 10},
		}
		assert.Zero(t, BuyHoldReturn(zeroPrice, 100000, 0.1, 0.001))
	})
}

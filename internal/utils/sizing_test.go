package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharesForNotional(t *testing.T) {
	tests := []struct {
		name      string
		notional  float64
		fillPrice float64
		expected  float64
	}{
		{name: "exact multiple", notional: 1000, fillPrice: 100, expected: 10},
		{name: "fractional remainder floored", notional: 1000, fillPrice: 101, expected: 9},
		{name: "notional below price", notional: 50, fillPrice: 100, expected: 0},
		{name: "zero price", notional: 1000, fillPrice: 0, expected: 0},
		{name: "negative notional", notional: -10, fillPrice: 100, expected: 0},
		{name: "slippage-adjusted fill", notional: 10000, fillPrice: 100.05, expected: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SharesForNotional(tt.notional, tt.fillPrice))
		})
	}
}

func TestMaxAffordableShares(t *testing.T) {
	tests := []struct {
		name           string
		shares         float64
		fillPrice      float64
		commissionRate float64
		cash           float64
		expected       float64
	}{
		{
			name:           "already affordable",
			shares:         10,
			fillPrice:      100,
			commissionRate: 0.001,
			cash:           10000,
			expected:       10,
		},
		{
			name:           "commission pushes over, one share trimmed",
			shares:         100,
			fillPrice:      100,
			commissionRate: 0.001,
			cash:           10000,
			expected:       99,
		},
		{
			name:           "nothing affordable",
			shares:         5,
			fillPrice:      100,
			commissionRate: 0.001,
			cash:           50,
			expected:       0,
		},
		{
			name:           "zero price",
			shares:         5,
			fillPrice:      0,
			commissionRate: 0.001,
			cash:           1000,
			expected:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxAffordableShares(tt.shares, tt.fillPrice, tt.commissionRate, tt.cash)
			assert.Equal(t, tt.expected, got)
		})
	}
}

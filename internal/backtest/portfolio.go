package backtest

import (
	"github.com/moznion/go-optional"

	"github.com/overline-lab/backstrat/internal/types"
)

// PortfolioState is the cash/position pair the engine advances bar by bar.
// It is treated as a value: the execution step functions return the next
// state instead of mutating in place, so a test can feed bars one at a time
// and compare whole states.
type PortfolioState struct {
	Cash     float64
	Position optional.Option[types.Position]
}

func newPortfolioState(cash float64) PortfolioState {
	return PortfolioState{
		Cash:     cash,
		Position: optional.None[types.Position](),
	}
}

// HasPosition reports whether a long position is open.
func (s PortfolioState) HasPosition() bool {
	return s.Position.IsSome()
}

// Value marks the portfolio to market at the given price.
func (s PortfolioState) Value(price float64) float64 {
	if s.Position.IsSome() {
		position := s.Position.Unwrap()

		return s.Cash + position.MarketValue(price)
	}

	return s.Cash
}

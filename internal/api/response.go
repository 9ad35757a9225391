package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/overline-lab/backstrat/internal/backtest/metrics"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// MetricsResponse mirrors types.PerformanceMetrics with every float passed
// through SafeFloat, so non-finite values (an infinite profit factor on a
// run with no losers) encode as JSON null instead of breaking the encoder.
type MetricsResponse struct {
	TotalReturn *float64 `json:"total_return"`
	CAGR        *float64 `json:"cagr"`

	TotalTrades   int      `json:"total_trades"`
	WinningTrades int      `json:"winning_trades"`
	LosingTrades  int      `json:"losing_trades"`
	WinRate       *float64 `json:"win_rate"`
	ProfitFactor  *float64 `json:"profit_factor"`
	Expectancy    *float64 `json:"expectancy"`

	AvgWin      *float64 `json:"avg_win"`
	AvgLoss     *float64 `json:"avg_loss"`
	LargestWin  *float64 `json:"largest_win"`
	LargestLoss *float64 `json:"largest_loss"`

	SharpeRatio  *float64 `json:"sharpe_ratio"`
	SortinoRatio *float64 `json:"sortino_ratio"`
	Volatility   *float64 `json:"volatility"`

	MaxDrawdown         *float64 `json:"max_drawdown"`
	AvgDrawdown         *float64 `json:"avg_drawdown"`
	MaxDrawdownDuration int      `json:"max_drawdown_duration"`

	AvgHoldingDays *float64 `json:"avg_holding_days"`

	InitialCapital *float64 `json:"initial_capital"`
	FinalEquity    *float64 `json:"final_equity"`
}

func newMetricsResponse(m types.PerformanceMetrics) MetricsResponse {
	return MetricsResponse{
		TotalReturn:         metrics.SafeFloat(m.TotalReturn),
		CAGR:                metrics.SafeFloat(m.CAGR),
		TotalTrades:         m.TotalTrades,
		WinningTrades:       m.WinningTrades,
		LosingTrades:        m.LosingTrades,
		WinRate:             metrics.SafeFloat(m.WinRate),
		ProfitFactor:        metrics.SafeFloat(m.ProfitFactor),
		Expectancy:          metrics.SafeFloat(m.Expectancy),
		AvgWin:              metrics.SafeFloat(m.AvgWin),
		AvgLoss:             metrics.SafeFloat(m.AvgLoss),
		LargestWin:          metrics.SafeFloat(m.LargestWin),
		LargestLoss:         metrics.SafeFloat(m.LargestLoss),
		SharpeRatio:         metrics.SafeFloat(m.SharpeRatio),
		SortinoRatio:        metrics.SafeFloat(m.SortinoRatio),
		Volatility:          metrics.SafeFloat(m.Volatility),
		MaxDrawdown:         metrics.SafeFloat(m.MaxDrawdown),
		AvgDrawdown:         metrics.SafeFloat(m.AvgDrawdown),
		MaxDrawdownDuration: m.MaxDrawdownDuration,
		AvgHoldingDays:      metrics.SafeFloat(m.AvgHoldingDays),
		InitialCapital:      metrics.SafeFloat(m.InitialCapital),
		FinalEquity:         metrics.SafeFloat(m.FinalEquity),
	}
}

// RunResponse is the API shape of a finished single run.
type RunResponse struct {
	ID            string              `json:"id"`
	Symbol        string              `json:"symbol"`
	Strategy      string              `json:"strategy"`
	Status        types.RunStatus     `json:"status"`
	ErrorMessage  string              `json:"error_message,omitempty"`
	Metrics       MetricsResponse     `json:"metrics"`
	Trades        []types.Trade       `json:"trades"`
	EquityCurve   []types.EquityPoint `json:"equity_curve"`
	BuyHoldReturn float64             `json:"buy_hold_return"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    time.Time           `json:"finished_at"`
}

func newRunResponse(result types.RunResult) RunResponse {
	return RunResponse{
		ID:            result.ID,
		Symbol:        result.Symbol,
		Strategy:      result.Strategy,
		Status:        result.Status,
		ErrorMessage:  result.ErrorMessage,
		Metrics:       newMetricsResponse(result.Metrics),
		Trades:        result.Trades,
		EquityCurve:   result.EquityCurve,
		BuyHoldReturn: result.BuyHoldReturn,
		StartedAt:     result.StartedAt,
		FinishedAt:    result.FinishedAt,
	}
}

// StrategyResponse is one catalog entry in the strategy listing. The
// parameter schema is embedded raw so clients get a real JSON object.
type StrategyResponse struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	APIVersion  string          `json:"api_version"`
	ParamSchema json.RawMessage `json:"param_schema,omitempty"`
}

// StrategiesResponse lists registered strategies and presets.
type StrategiesResponse struct {
	Strategies []StrategyResponse `json:"strategies"`
	Presets    []PresetResponse   `json:"presets"`
}

// PresetResponse is one named parameterization in the strategy listing.
type PresetResponse struct {
	Name        string `json:"name"`
	Strategy    string `json:"strategy"`
	Description string `json:"description"`
	Config      string `json:"config,omitempty"`
}

// ErrorResponse is the uniform error shape of the API.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), ErrorResponse{
		Error: err.Error(),
		Code:  int(errors.GetCode(err)),
	})
}

// statusForError maps error codes onto HTTP statuses. Anything not
// recognizably a caller mistake is a 500.
func statusForError(err error) int {
	notFound := []errors.ErrorCode{
		errors.ErrCodeBatchNotFound,
		errors.ErrCodeRunNotFound,
		errors.ErrCodeStrategyNotFound,
		errors.ErrCodeDataNotFound,
		errors.ErrCodeNoDataFound,
	}
	for _, code := range notFound {
		if errors.HasCode(err, code) {
			return http.StatusNotFound
		}
	}

	badRequest := []errors.ErrorCode{
		errors.ErrCodeInvalidRequest,
		errors.ErrCodeInvalidParameter,
		errors.ErrCodeInvalidConfiguration,
		errors.ErrCodeInvalidCapital,
		errors.ErrCodeInvalidCommission,
		errors.ErrCodeInvalidSlippage,
		errors.ErrCodeInvalidPositionSize,
		errors.ErrCodeInvalidStopLoss,
		errors.ErrCodeInvalidTakeProfit,
		errors.ErrCodeInvalidRunWindow,
		errors.ErrCodeStrategyConfigError,
		errors.ErrCodeBacktestConfigError,
		errors.ErrCodeInsufficientData,
		errors.ErrCodeUnorderedSeries,
	}
	for _, code := range badRequest {
		if errors.HasCode(err, code) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"

	"github.com/overline-lab/backstrat/internal/backtest"
	"github.com/overline-lab/backstrat/internal/backtest/batch"
	"github.com/overline-lab/backstrat/internal/datasource"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// RunConfigRequest carries optional overrides of the default run
// parameters. Absent fields keep their defaults.
type RunConfigRequest struct {
	InitialCapital *float64   `json:"initial_capital" validate:"omitempty,gt=0"`
	CommissionRate *float64   `json:"commission_rate" validate:"omitempty,gte=0,lt=1"`
	SlippageRate   *float64   `json:"slippage_rate" validate:"omitempty,gte=0,lt=1"`
	PositionSize   *float64   `json:"position_size" validate:"omitempty,gt=0,lte=1"`
	StopLossPct    *float64   `json:"stop_loss_pct" validate:"omitempty,gte=0,lt=1"`
	TakeProfitPct  *float64   `json:"take_profit_pct" validate:"omitempty,gte=0"`
	RiskFreeRate   *float64   `json:"risk_free_rate" validate:"omitempty,gte=0"`
	MinHistoryBars *int       `json:"min_history_bars" validate:"omitempty,gte=0"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
}

func (r *RunConfigRequest) apply(base backtest.Config) backtest.Config {
	if r == nil {
		return base
	}

	if r.InitialCapital != nil {
		base.InitialCapital = *r.InitialCapital
	}
	if r.CommissionRate != nil {
		base.CommissionRate = *r.CommissionRate
	}
	if r.SlippageRate != nil {
		base.SlippageRate = *r.SlippageRate
	}
	if r.PositionSize != nil {
		base.PositionSize = *r.PositionSize
	}
	if r.StopLossPct != nil {
		base.StopLossPct = *r.StopLossPct
	}
	if r.TakeProfitPct != nil {
		base.TakeProfitPct = *r.TakeProfitPct
	}
	if r.RiskFreeRate != nil {
		base.RiskFreeRate = *r.RiskFreeRate
	}
	if r.MinHistoryBars != nil {
		base.MinHistoryBars = *r.MinHistoryBars
	}
	if r.StartTime != nil {
		base.StartTime = optional.Some(*r.StartTime)
	}
	if r.EndTime != nil {
		base.EndTime = optional.Some(*r.EndTime)
	}

	return base
}

// RunRequest submits a single backtest. The bars are either sent inline or
// read from a data file on the server.
type RunRequest struct {
	Symbol   string            `json:"symbol" validate:"required"`
	Strategy string            `json:"strategy" validate:"required"`
	Config   string            `json:"config"`
	DataPath string            `json:"data_path"`
	Bars     []types.Bar       `json:"bars,omitempty"`
	Run      *RunConfigRequest `json:"run"`
}

// BatchItemRequest is one backtest inside a batch submission.
type BatchItemRequest struct {
	Symbol   string      `json:"symbol" validate:"required"`
	Strategy string      `json:"strategy" validate:"required"`
	Config   string      `json:"config"`
	DataPath string      `json:"data_path"`
	Bars     []types.Bar `json:"bars,omitempty"`
}

// BatchRequest submits a set of backtests that share run parameters.
type BatchRequest struct {
	Items       []BatchItemRequest `json:"items" validate:"required,min=1,dive"`
	Run         *RunConfigRequest  `json:"run"`
	Concurrency int                `json:"concurrency" validate:"gte=0"`
}

func (s *Server) handleCreateBacktest(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid request body", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid backtest request", err))
		return
	}
	if len(req.Bars) == 0 && req.DataPath == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidRequest, "either bars or data_path is required"))
		return
	}

	strat, err := s.catalog.Resolve(req.Strategy, req.Config)
	if err != nil {
		writeError(w, err)
		return
	}

	config := req.Run.apply(backtest.DefaultConfig())
	engine, err := backtest.NewEngine(config, s.logger)
	if err != nil {
		writeError(w, err)
		return
	}

	bars := req.Bars
	if len(bars) == 0 {
		bars, err = s.loadBars(req.DataPath, config)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	result := engine.Run(req.Symbol, strat, bars)
	writeJSON(w, http.StatusOK, newRunResponse(result))
}

func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid request body", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid batch request", err))
		return
	}

	items := make([]batch.Item, len(req.Items))
	for i, item := range req.Items {
		if len(item.Bars) == 0 && item.DataPath == "" {
			writeError(w, errors.Newf(errors.ErrCodeInvalidRequest, "item %d needs either bars or data_path", i))
			return
		}
		items[i] = batch.Item{
			Symbol:   item.Symbol,
			Strategy: item.Strategy,
			Config:   item.Config,
			DataPath: item.DataPath,
			Bars:     item.Bars,
		}
	}

	config := batch.Config{
		Run:         req.Run.apply(backtest.DefaultConfig()),
		Concurrency: req.Concurrency,
	}
	if err := config.Run.Validate(); err != nil {
		writeError(w, err)
		return
	}

	state := s.registry.create(len(items))
	batchID := state.BatchID

	runner, err := batch.NewRunner(config, s.catalog, s.logger, func(completed, total int, result batch.ItemResult) {
		s.registry.recordItem(batchID, completed, result.Result.Summarize())
	})
	if err != nil {
		s.registry.finish(batchID, nil, err)
		writeError(w, err)
		return
	}

	go func() {
		result, runErr := runner.Run(s.ctx, items)
		s.registry.finish(batchID, result.Summaries(), runErr)
	}()

	writeJSON(w, http.StatusAccepted, state)
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	state, err := s.registry.get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleListStrategies(w http.ResponseWriter, _ *http.Request) {
	metas := s.catalog.List()
	strategies := make([]StrategyResponse, 0, len(metas))
	for _, meta := range metas {
		strategies = append(strategies, StrategyResponse{
			Name:        meta.Name,
			Description: meta.Description,
			Category:    string(meta.Category),
			APIVersion:  meta.APIVersion,
			ParamSchema: json.RawMessage(meta.ParamSchema),
		})
	}

	catalogPresets := s.catalog.ListPresets()
	presets := make([]PresetResponse, 0, len(catalogPresets))
	for _, preset := range catalogPresets {
		presets = append(presets, PresetResponse{
			Name:        preset.Name,
			Strategy:    preset.Strategy,
			Description: preset.Description,
			Config:      preset.Config,
		})
	}

	writeJSON(w, http.StatusOK, StrategiesResponse{
		Strategies: strategies,
		Presets:    presets,
	})
}

// loadBars opens a data file and drains the configured run window.
func (s *Server) loadBars(path string, config backtest.Config) ([]types.Bar, error) {
	source, err := datasource.NewDuckDBSource(s.logger)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	if err := source.Initialize(path); err != nil {
		return nil, err
	}

	return datasource.Collect(source, config.StartTime, config.EndTime)
}

package backtest

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"

	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// Default run parameters applied by DefaultConfig.
const (
	DefaultInitialCapital = 100000.0
	DefaultCommissionRate = 0.001
	DefaultSlippageRate   = 0.0005
	DefaultPositionSize   = 0.1
	DefaultStopLossPct    = 0.05
	DefaultTakeProfitPct  = 0.15
	DefaultRiskFreeRate   = 0.02
	DefaultMinHistoryBars = 50
)

var validate = validator.New()

// Config holds the run parameters of a single backtest. A zero StopLossPct or
// TakeProfitPct disables that trigger; StartTime/EndTime bound the simulated
// window and default to the whole series.
type Config struct {
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"required,gt=0" jsonschema:"title=Initial Capital,description=Starting cash for the run,minimum=0"`
	CommissionRate float64 `yaml:"commission_rate" json:"commission_rate" validate:"gte=0,lt=1" jsonschema:"title=Commission Rate,description=Commission charged on notional at entry and at exit,minimum=0"`
	SlippageRate   float64 `yaml:"slippage_rate" json:"slippage_rate" validate:"gte=0,lt=1" jsonschema:"title=Slippage Rate,description=Adverse adjustment applied to every open-price and liquidation fill,minimum=0"`
	PositionSize   float64 `yaml:"position_size" json:"position_size" validate:"gt=0,lte=1" jsonschema:"title=Position Size,description=Fraction of available cash committed per entry,minimum=0,maximum=1"`
	StopLossPct    float64 `yaml:"stop_loss_pct" json:"stop_loss_pct" validate:"gte=0,lt=1" jsonschema:"title=Stop Loss Pct,description=Stop distance below the entry fill price; 0 disables,minimum=0"`
	TakeProfitPct  float64 `yaml:"take_profit_pct" json:"take_profit_pct" validate:"gte=0" jsonschema:"title=Take Profit Pct,description=Target distance above the entry fill price; 0 disables,minimum=0"`
	RiskFreeRate   float64 `yaml:"risk_free_rate" json:"risk_free_rate" validate:"gte=0" jsonschema:"title=Risk Free Rate,description=Annual risk-free rate used by the ratio metrics,minimum=0"`
	MinHistoryBars int     `yaml:"min_history_bars" json:"min_history_bars" validate:"gte=0" jsonschema:"title=Minimum History Bars,description=Warm-up floor in bars before the first trading decision,minimum=0"`

	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time" validate:"-" jsonschema:"title=Start Time,description=Optional inclusive start of the run window"`
	EndTime   optional.Option[time.Time] `yaml:"end_time" json:"end_time" validate:"-" jsonschema:"title=End Time,description=Optional inclusive end of the run window"`
}

// DefaultConfig returns the documented default run parameters with an
// unbounded window.
func DefaultConfig() Config {
	return Config{
		InitialCapital: DefaultInitialCapital,
		CommissionRate: DefaultCommissionRate,
		SlippageRate:   DefaultSlippageRate,
		PositionSize:   DefaultPositionSize,
		StopLossPct:    DefaultStopLossPct,
		TakeProfitPct:  DefaultTakeProfitPct,
		RiskFreeRate:   DefaultRiskFreeRate,
		MinHistoryBars: DefaultMinHistoryBars,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
	}
}

// TestConfig returns a small-capital config bounded to the given window.
func TestConfig(startTime time.Time, endTime time.Time) Config {
	config := DefaultConfig()
	config.InitialCapital = 10000
	config.StartTime = optional.Some(startTime)
	config.EndTime = optional.Some(endTime)

	return config
}

// EmptyConfig returns a Config with zero values.
func EmptyConfig() Config {
	return Config{
		StartTime: optional.None[time.Time](),
		EndTime:   optional.None[time.Time](),
	}
}

// UnmarshalYAML implements custom unmarshaling for Config.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plainConfig struct {
		InitialCapital float64    `yaml:"initial_capital"`
		CommissionRate float64    `yaml:"commission_rate"`
		SlippageRate   float64    `yaml:"slippage_rate"`
		PositionSize   float64    `yaml:"position_size"`
		StopLossPct    float64    `yaml:"stop_loss_pct"`
		TakeProfitPct  float64    `yaml:"take_profit_pct"`
		RiskFreeRate   float64    `yaml:"risk_free_rate"`
		MinHistoryBars int        `yaml:"min_history_bars"`
		StartTime      *time.Time `yaml:"start_time"`
		EndTime        *time.Time `yaml:"end_time"`
	}

	// Seed from the receiver so decoding over DefaultConfig keeps the
	// defaults for keys the document omits.
	config := plainConfig{
		InitialCapital: c.InitialCapital,
		CommissionRate: c.CommissionRate,
		SlippageRate:   c.SlippageRate,
		PositionSize:   c.PositionSize,
		StopLossPct:    c.StopLossPct,
		TakeProfitPct:  c.TakeProfitPct,
		RiskFreeRate:   c.RiskFreeRate,
		MinHistoryBars: c.MinHistoryBars,
	}
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.CommissionRate = config.CommissionRate
	c.SlippageRate = config.SlippageRate
	c.PositionSize = config.PositionSize
	c.StopLossPct = config.StopLossPct
	c.TakeProfitPct = config.TakeProfitPct
	c.RiskFreeRate = config.RiskFreeRate
	c.MinHistoryBars = config.MinHistoryBars
	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}
	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks the run parameters, mapping the first violation to its
// field-specific error code.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			field := fieldErrors[0].Field()

			return errors.Wrapf(codeForField(field), err, "invalid config field %s", field)
		}

		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && !c.StartTime.Unwrap().Before(c.EndTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidRunWindow,
			"start time %s is not before end time %s",
			c.StartTime.Unwrap().Format(time.RFC3339), c.EndTime.Unwrap().Format(time.RFC3339))
	}

	return nil
}

func codeForField(field string) errors.ErrorCode {
	switch field {
	case "InitialCapital":
		return errors.ErrCodeInvalidCapital
	case "CommissionRate":
		return errors.ErrCodeInvalidCommission
	case "SlippageRate":
		return errors.ErrCodeInvalidSlippage
	case "PositionSize":
		return errors.ErrCodeInvalidPositionSize
	case "StopLossPct":
		return errors.ErrCodeInvalidStopLoss
	case "TakeProfitPct":
		return errors.ErrCodeInvalidTakeProfit
	default:
		return errors.ErrCodeBacktestConfigError
	}
}

// Window returns the bars inside the configured [StartTime, EndTime] range.
func (c *Config) Window(bars []types.Bar) []types.Bar {
	var start, end time.Time
	if c.StartTime.IsSome() {
		start = c.StartTime.Unwrap()
	}
	if c.EndTime.IsSome() {
		end = c.EndTime.Unwrap()
	}

	return types.SliceByWindow(bars, start, end)
}

// GenerateSchema generates a JSON schema for the Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backstrat-run-config"
	schema.Description = "Run parameters for a single backtest"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

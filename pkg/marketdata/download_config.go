package marketdata

import (
	"encoding/json"
	"time"

	"github.com/overline-lab/backstrat/pkg/errors"
)

// BaseDownloadConfig is the provider-independent part of a download request
// as submitted through the API or a config file. Dates are RFC3339 strings
// so the configs stay plain JSON.
type BaseDownloadConfig struct {
	Ticker    string `json:"ticker" jsonschema:"required,description=Ticker symbol to download"`
	StartDate string `json:"start_date" jsonschema:"required,description=Range start in RFC3339 format,example=2024-01-01T00:00:00Z"`
	EndDate   string `json:"end_date" jsonschema:"required,description=Range end in RFC3339 format,example=2024-06-30T00:00:00Z"`
	Interval  string `json:"interval" jsonschema:"required,description=Bar interval,enum=1s,enum=1m,enum=3m,enum=5m,enum=15m,enum=30m,enum=1h,enum=2h,enum=4h,enum=6h,enum=8h,enum=12h,enum=1d,enum=3d,enum=1w,enum=1M"`
}

// Validate checks the fields that a JSON schema cannot express, mostly date
// parsing and ordering.
func (c *BaseDownloadConfig) Validate() error {
	if c.Ticker == "" {
		return errors.New(errors.ErrCodeInvalidConfiguration, "ticker is required")
	}
	start, err := time.Parse(time.RFC3339, c.StartDate)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid start_date %q, want RFC3339", c.StartDate)
	}
	end, err := time.Parse(time.RFC3339, c.EndDate)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid end_date %q, want RFC3339", c.EndDate)
	}
	if !end.After(start) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "end_date must be after start_date")
	}
	if !Timespan(c.Interval).IsValid() {
		return errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval: %s", c.Interval)
	}
	return nil
}

// ToDownloadParams converts the config into the params the client consumes.
func (c *BaseDownloadConfig) ToDownloadParams() (DownloadParams, error) {
	if err := c.Validate(); err != nil {
		return DownloadParams{}, err
	}
	start, _ := time.Parse(time.RFC3339, c.StartDate)
	end, _ := time.Parse(time.RFC3339, c.EndDate)
	interval := Timespan(c.Interval)

	return DownloadParams{
		Ticker:     c.Ticker,
		StartDate:  start,
		EndDate:    end,
		Multiplier: interval.Multiplier(),
		Timespan:   interval.Timespan(),
	}, nil
}

// PolygonDownloadConfig is the download config for the polygon provider.
type PolygonDownloadConfig struct {
	BaseDownloadConfig
	ApiKey string `json:"api_key" jsonschema:"required,description=Polygon API key"`
}

func (c *PolygonDownloadConfig) Validate() error {
	if err := c.BaseDownloadConfig.Validate(); err != nil {
		return err
	}
	if c.ApiKey == "" {
		return errors.New(errors.ErrCodeInvalidConfiguration, "api_key is required")
	}
	return nil
}

// ToClientConfig builds the client config that downloads with this provider
// into dataPath using the given writer.
func (c *PolygonDownloadConfig) ToClientConfig(dataPath string, writerType WriterType) ClientConfig {
	return ClientConfig{
		ProviderType:  ProviderPolygon,
		WriterType:    writerType,
		DataPath:      dataPath,
		PolygonApiKey: c.ApiKey,
	}
}

// BinanceDownloadConfig is the download config for the binance provider.
// Binance klines are public, so no credentials are carried.
type BinanceDownloadConfig struct {
	BaseDownloadConfig
}

func (c *BinanceDownloadConfig) ToClientConfig(dataPath string, writerType WriterType) ClientConfig {
	return ClientConfig{
		ProviderType: ProviderBinance,
		WriterType:   writerType,
		DataPath:     dataPath,
	}
}

// ParsePolygonConfig parses and validates a polygon download config from
// JSON.
func ParsePolygonConfig(data []byte) (*PolygonDownloadConfig, error) {
	var config PolygonDownloadConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse polygon download config", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ParseBinanceConfig parses and validates a binance download config from
// JSON.
func ParseBinanceConfig(data []byte) (*BinanceDownloadConfig, error) {
	var config BinanceDownloadConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse binance download config", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

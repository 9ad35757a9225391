package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/overline-lab/backstrat/internal/logger"
	"github.com/overline-lab/backstrat/pkg/errors"
	"github.com/overline-lab/backstrat/pkg/marketdata/provider"
	"github.com/overline-lab/backstrat/pkg/marketdata/writer"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"
)

// ProviderType identifies a supported market data provider.
type ProviderType = provider.ProviderType

const (
	ProviderPolygon = provider.ProviderPolygon
	ProviderBinance = provider.ProviderBinance
)

// WriterType selects the on-disk format downloads are written in. The
// duckdb writer produces parquet files, the csv writer plain CSV.
type WriterType string

const (
	WriterDuckDB WriterType = "duckdb"
	WriterCSV    WriterType = "csv"
)

// ClientConfig configures a download client.
type ClientConfig struct {
	ProviderType  ProviderType `json:"provider_type" validate:"required,oneof=polygon binance"`
	WriterType    WriterType   `json:"writer_type" validate:"required,oneof=duckdb csv"`
	DataPath      string       `json:"data_path" validate:"required"`
	PolygonApiKey string       `json:"polygon_api_key" validate:"required_if=ProviderType polygon"`
}

// DownloadParams describes a single download request.
type DownloadParams struct {
	Ticker     string          `json:"ticker" validate:"required"`
	StartDate  time.Time       `json:"start_date" validate:"required"`
	EndDate    time.Time       `json:"end_date" validate:"required,gtfield=StartDate"`
	Multiplier int             `json:"multiplier" validate:"min=1"`
	Timespan   models.Timespan `json:"timespan" validate:"required"`
}

// Client ties a provider and a writer together. It validates requests,
// decides where the output file lands, and delegates the actual download to
// the provider.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	logger     *logger.Logger
	onProgress provider.OnDownloadProgress
}

// NewClient creates a download client. log may be nil, onProgress may be
// nil when no progress reporting is wanted.
func NewClient(config ClientConfig, log *logger.Logger, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client config", err)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	var providerConfig any
	if config.ProviderType == ProviderPolygon {
		providerConfig = config.PolygonApiKey
	}
	p, err := provider.NewMarketDataProvider(config.ProviderType, providerConfig)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider:   p,
		config:     config,
		validate:   validate,
		logger:     log,
		onProgress: onProgress,
	}, nil
}

// Download fetches the requested range and returns the path of the written
// file. The file name encodes ticker, date range and interval, so repeated
// downloads of the same request overwrite each other.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download params", err)
	}

	w, err := c.setupWriter(params)
	if err != nil {
		return "", err
	}
	defer w.Close()

	c.provider.ConfigWriter(w)

	c.logger.Info("Starting market data download",
		zap.String("ticker", params.Ticker),
		zap.String("provider", string(c.config.ProviderType)),
		zap.Time("start_date", params.StartDate),
		zap.Time("end_date", params.EndDate),
	)

	path, err := c.provider.Download(ctx, params.Ticker, params.StartDate, params.EndDate, params.Multiplier, params.Timespan, c.onProgress)
	if err != nil {
		return "", err
	}

	c.logger.Info("Market data download complete",
		zap.String("ticker", params.Ticker),
		zap.String("path", path),
	)
	return path, nil
}

func (c *Client) setupWriter(params DownloadParams) (writer.BarWriter, error) {
	if err := os.MkdirAll(c.config.DataPath, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create data directory", err)
	}

	var ext string
	switch c.config.WriterType {
	case WriterDuckDB:
		ext = "parquet"
	case WriterCSV:
		ext = "csv"
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported writer type: %s", c.config.WriterType)
	}

	filename := fmt.Sprintf("%s_%s_%s_%d_%s.%s",
		params.Ticker,
		params.StartDate.Format("2006-01-02"),
		params.EndDate.Format("2006-01-02"),
		params.Multiplier,
		params.Timespan,
		ext,
	)
	return writer.NewDuckDBWriter(filepath.Join(c.config.DataPath, filename)), nil
}

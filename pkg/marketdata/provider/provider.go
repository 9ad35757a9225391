// Package provider implements market data providers that download
// historical bars from external APIs and feed them into a writer.
package provider

import (
	"context"
	"time"

	"github.com/overline-lab/backstrat/pkg/errors"
	"github.com/overline-lab/backstrat/pkg/marketdata/writer"
	"github.com/polygon-io/client-go/rest/models"
)

type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// OnDownloadProgress reports download progress. current and total are in
// provider-specific units (usually elapsed and total days of the requested
// range). Calls are serialized; implementations invoke it from the download
// goroutine.
type OnDownloadProgress = func(current float64, total float64, message string)

// Provider downloads historical bars for a ticker and hands them to the
// configured writer bar by bar.
type Provider interface {
	// ConfigWriter sets the destination for downloaded bars. It must be
	// called before Download.
	ConfigWriter(writer writer.BarWriter)
	// Download fetches bars between startDate and endDate at the given
	// interval and returns the path the writer produced. Cancelling the
	// context aborts the download. onProgress may be nil.
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (string, error)
}

// NewMarketDataProvider creates a provider of the given type. config carries
// provider-specific settings: the polygon provider expects its API key as a
// string, the binance provider takes none.
func NewMarketDataProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon provider requires an API key string")
		}
		return NewPolygonClient(apiKey)
	case ProviderBinance:
		return NewBinanceClient()
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider type: %s", providerType)
	}
}

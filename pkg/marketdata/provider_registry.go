package marketdata

import (
	"sort"

	"github.com/overline-lab/backstrat/internal/strategy"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// ProviderInfo describes a supported provider for discovery surfaces like
// the API and the CLI.
type ProviderInfo struct {
	Name         ProviderType `json:"name"`
	DisplayName  string       `json:"display_name"`
	Description  string       `json:"description"`
	RequiresAuth bool         `json:"requires_auth"`
}

var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderPolygon: {
		Name:         ProviderPolygon,
		DisplayName:  "Polygon.io",
		Description:  "US stocks, indices and crypto aggregates from polygon.io",
		RequiresAuth: true,
	},
	ProviderBinance: {
		Name:         ProviderBinance,
		DisplayName:  "Binance",
		Description:  "Crypto klines from the public binance API",
		RequiresAuth: false,
	},
}

// GetSupportedProviders returns all registered providers sorted by name.
func GetSupportedProviders() []ProviderInfo {
	infos := make([]ProviderInfo, 0, len(providerRegistry))
	for _, info := range providerRegistry {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// GetProviderInfo looks up a single provider.
func GetProviderInfo(providerType ProviderType) (ProviderInfo, error) {
	info, ok := providerRegistry[providerType]
	if !ok {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unknown provider: %s", providerType)
	}
	return info, nil
}

// GetDownloadConfigSchema returns the JSON schema of the download config the
// provider accepts, for clients that build request forms dynamically.
func GetDownloadConfigSchema(providerType ProviderType) (string, error) {
	switch providerType {
	case ProviderPolygon:
		return strategy.ToJSONSchema(PolygonDownloadConfig{})
	case ProviderBinance:
		return strategy.ToJSONSchema(BinanceDownloadConfig{})
	default:
		return "", errors.Newf(errors.ErrCodeInvalidProvider, "unknown provider: %s", providerType)
	}
}

// ParseDownloadConfig parses a provider-specific download config from JSON
// and returns the download params together with the client config that runs
// the download into dataPath.
func ParseDownloadConfig(providerType ProviderType, data []byte, dataPath string, writerType WriterType) (DownloadParams, ClientConfig, error) {
	switch providerType {
	case ProviderPolygon:
		config, err := ParsePolygonConfig(data)
		if err != nil {
			return DownloadParams{}, ClientConfig{}, err
		}
		params, err := config.ToDownloadParams()
		if err != nil {
			return DownloadParams{}, ClientConfig{}, err
		}
		return params, config.ToClientConfig(dataPath, writerType), nil
	case ProviderBinance:
		config, err := ParseBinanceConfig(data)
		if err != nil {
			return DownloadParams{}, ClientConfig{}, err
		}
		params, err := config.ToDownloadParams()
		if err != nil {
			return DownloadParams{}, ClientConfig{}, err
		}
		return params, config.ToClientConfig(dataPath, writerType), nil
	default:
		return DownloadParams{}, ClientConfig{}, errors.Newf(errors.ErrCodeInvalidProvider, "unknown provider: %s", providerType)
	}
}

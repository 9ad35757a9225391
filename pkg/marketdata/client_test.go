package marketdata

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/overline-lab/backstrat/internal/logger"
	"github.com/overline-lab/backstrat/mocks"
	"github.com/overline-lab/backstrat/pkg/errors"
	"github.com/overline-lab/backstrat/pkg/marketdata/provider"
	"github.com/overline-lab/backstrat/pkg/marketdata/writer"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ClientTestSuite struct {
	suite.Suite
	dataPath string
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.dataPath = filepath.Join(s.T().TempDir(), "data")
}

func (s *ClientTestSuite) validConfig() ClientConfig {
	return ClientConfig{
		ProviderType: ProviderBinance,
		WriterType:   WriterDuckDB,
		DataPath:     s.dataPath,
	}
}

func (s *ClientTestSuite) validParams() DownloadParams {
	return DownloadParams{
		Ticker:     "AAPL",
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Multiplier: 1,
		Timespan:   models.Day,
	}
}

func (s *ClientTestSuite) newClientWith(p provider.Provider, config ClientConfig) *Client {
	return &Client{
		provider: p,
		config:   config,
		validate: validator.New(),
		logger:   logger.NewNopLogger(),
	}
}

func (s *ClientTestSuite) TestNewClient() {
	client, err := NewClient(s.validConfig(), nil, nil)
	s.Require().NoError(err)
	s.NotNil(client)
}

func (s *ClientTestSuite) TestNewClientConfigValidation() {
	tests := []struct {
		name   string
		mutate func(*ClientConfig)
		valid  bool
	}{
		{
			name:   "binance with duckdb writer",
			mutate: func(c *ClientConfig) {},
			valid:  true,
		},
		{
			name:   "binance with csv writer",
			mutate: func(c *ClientConfig) { c.WriterType = WriterCSV },
			valid:  true,
		},
		{
			name: "polygon with api key",
			mutate: func(c *ClientConfig) {
				c.ProviderType = ProviderPolygon
				c.PolygonApiKey = "test-key"
			},
			valid: true,
		},
		{
			name:   "missing provider type",
			mutate: func(c *ClientConfig) { c.ProviderType = "" },
		},
		{
			name:   "unknown provider type",
			mutate: func(c *ClientConfig) { c.ProviderType = "yahoo" },
		},
		{
			name:   "missing writer type",
			mutate: func(c *ClientConfig) { c.WriterType = "" },
		},
		{
			name:   "unknown writer type",
			mutate: func(c *ClientConfig) { c.WriterType = "sqlite" },
		},
		{
			name:   "missing data path",
			mutate: func(c *ClientConfig) { c.DataPath = "" },
		},
		{
			name:   "polygon without api key",
			mutate: func(c *ClientConfig) { c.ProviderType = ProviderPolygon },
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			config := s.validConfig()
			tt.mutate(&config)

			_, err := NewClient(config, nil, nil)
			if tt.valid {
				s.NoError(err)
			} else {
				s.Require().Error(err)
				s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
			}
		})
	}
}

func (s *ClientTestSuite) TestDownloadDelegatesToProvider() {
	ctrl := gomock.NewController(s.T())
	mockProvider := mocks.NewMockProvider(ctrl)

	params := s.validParams()
	var captured writer.BarWriter
	mockProvider.EXPECT().
		ConfigWriter(gomock.Any()).
		Do(func(w writer.BarWriter) { captured = w })
	mockProvider.EXPECT().
		Download(gomock.Any(), "AAPL", params.StartDate, params.EndDate, 1, models.Day, gomock.Any()).
		Return("/data/AAPL.parquet", nil)

	client := s.newClientWith(mockProvider, s.validConfig())
	path, err := client.Download(context.Background(), params)
	s.Require().NoError(err)
	s.Equal("/data/AAPL.parquet", path)

	s.Require().NotNil(captured)
	s.Equal(
		filepath.Join(s.dataPath, "AAPL_2024-01-01_2024-06-30_1_day.parquet"),
		captured.GetOutputPath(),
	)
	s.DirExists(s.dataPath, "the data directory should be created on demand")
}

func (s *ClientTestSuite) TestDownloadCSVWriterFilename() {
	ctrl := gomock.NewController(s.T())
	mockProvider := mocks.NewMockProvider(ctrl)

	config := s.validConfig()
	config.WriterType = WriterCSV

	var captured writer.BarWriter
	mockProvider.EXPECT().
		ConfigWriter(gomock.Any()).
		Do(func(w writer.BarWriter) { captured = w })
	mockProvider.EXPECT().
		Download(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("ignored", nil)

	client := s.newClientWith(mockProvider, config)
	_, err := client.Download(context.Background(), s.validParams())
	s.Require().NoError(err)

	s.Require().NotNil(captured)
	s.Equal(".csv", filepath.Ext(captured.GetOutputPath()))
}

func (s *ClientTestSuite) TestDownloadParamsValidation() {
	tests := []struct {
		name   string
		mutate func(*DownloadParams)
	}{
		{
			name:   "missing ticker",
			mutate: func(p *DownloadParams) { p.Ticker = "" },
		},
		{
			name:   "missing start date",
			mutate: func(p *DownloadParams) { p.StartDate = time.Time{} },
		},
		{
			name: "end before start",
			mutate: func(p *DownloadParams) {
				p.EndDate = p.StartDate.AddDate(0, 0, -1)
			},
		},
		{
			name:   "zero multiplier",
			mutate: func(p *DownloadParams) { p.Multiplier = 0 },
		},
		{
			name:   "missing timespan",
			mutate: func(p *DownloadParams) { p.Timespan = "" },
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			ctrl := gomock.NewController(s.T())
			mockProvider := mocks.NewMockProvider(ctrl)

			params := s.validParams()
			tt.mutate(&params)

			client := s.newClientWith(mockProvider, s.validConfig())
			_, err := client.Download(context.Background(), params)
			s.Require().Error(err)
			s.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
		})
	}
}

func (s *ClientTestSuite) TestDownloadProviderError() {
	ctrl := gomock.NewController(s.T())
	mockProvider := mocks.NewMockProvider(ctrl)

	mockProvider.EXPECT().ConfigWriter(gomock.Any())
	mockProvider.EXPECT().
		Download(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New(errors.ErrCodeMarketDataFetchFailed, "rate limited"))

	client := s.newClientWith(mockProvider, s.validConfig())
	_, err := client.Download(context.Background(), s.validParams())
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
}

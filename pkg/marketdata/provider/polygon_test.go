package provider

import (
	"context"
	"testing"
	"time"

	"github.com/overline-lab/backstrat/pkg/errors"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

type fakeAggsIterator struct {
	items []models.Agg
	pos   int
	err   error
}

func (it *fakeAggsIterator) Next() bool {
	if it.pos >= len(it.items) {
		return false
	}
	it.pos++
	return true
}

func (it *fakeAggsIterator) Item() models.Agg {
	return it.items[it.pos-1]
}

func (it *fakeAggsIterator) Err() error {
	if it.pos >= len(it.items) {
		return it.err
	}
	return nil
}

type fakePolygonAPI struct {
	params *models.ListAggsParams
	iter   *fakeAggsIterator
}

func (f *fakePolygonAPI) ListAggs(ctx context.Context, params *models.ListAggsParams) PolygonAggsIterator {
	f.params = params
	return f.iter
}

type PolygonProviderTestSuite struct {
	suite.Suite
	start time.Time
	end   time.Time
}

func TestPolygonProviderSuite(t *testing.T) {
	suite.Run(t, new(PolygonProviderTestSuite))
}

func (s *PolygonProviderTestSuite) SetupTest() {
	s.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.end = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
}

func (s *PolygonProviderTestSuite) sampleAggs(n int) []models.Agg {
	aggs := make([]models.Agg, n)
	for i := range aggs {
		ts := s.start.Add(time.Duration(i) * time.Minute)
		aggs[i] = models.Agg{
			Timestamp: models.Millis(ts),
			Open:      100.0 + float64(i),
			High:      101.0 + float64(i),
			Low:       99.0 + float64(i),
			Close:     100.5 + float64(i),
			Volume:    1500,
		}
	}
	return aggs
}

func (s *PolygonProviderTestSuite) TestNewPolygonClientRequiresAPIKey() {
	_, err := NewPolygonClient("")
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	client, err := NewPolygonClient("test-api-key")
	s.Require().NoError(err)
	s.NotNil(client)
}

func (s *PolygonProviderTestSuite) TestDownloadWritesAllBars() {
	api := &fakePolygonAPI{iter: &fakeAggsIterator{items: s.sampleAggs(3)}}
	w := &mockWriter{outputPath: "AAPL.parquet"}

	client := &PolygonClient{api: api}
	client.ConfigWriter(w)

	path, err := client.Download(context.Background(), "AAPL", s.start, s.end, 5, models.Minute, nil)
	s.Require().NoError(err)
	s.Equal("AAPL.parquet", path)

	s.True(w.initialized)
	s.True(w.finalized)
	s.Require().Len(w.bars, 3)
	s.Equal("AAPL", w.bars[0].Symbol)
	s.True(w.bars[0].Time.Equal(s.start))
	s.InDelta(100.0, w.bars[0].Open, 1e-9)
	s.InDelta(102.5, w.bars[2].Close, 1e-9)

	s.Require().NotNil(api.params)
	s.Equal("AAPL", api.params.Ticker)
	s.Equal(5, api.params.Multiplier)
	s.Equal(models.Minute, api.params.Timespan)
	s.True(time.Time(api.params.From).Equal(s.start))
	s.True(time.Time(api.params.To).Equal(s.end))
}

func (s *PolygonProviderTestSuite) TestDownloadSurfacesIteratorError() {
	api := &fakePolygonAPI{iter: &fakeAggsIterator{
		items: s.sampleAggs(2),
		err:   errors.New(errors.ErrCodeMarketDataFetchFailed, "rate limited"),
	}}
	w := &mockWriter{outputPath: "AAPL.parquet"}

	client := &PolygonClient{api: api}
	client.ConfigWriter(w)

	_, err := client.Download(context.Background(), "AAPL", s.start, s.end, 1, models.Day, nil)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
	s.False(w.finalized, "a failed download should not finalize the output")
}

func (s *PolygonProviderTestSuite) TestDownloadRequiresWriter() {
	client := &PolygonClient{api: &fakePolygonAPI{iter: &fakeAggsIterator{}}}

	_, err := client.Download(context.Background(), "AAPL", s.start, s.end, 1, models.Day, nil)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (s *PolygonProviderTestSuite) TestDownloadSurfacesWriteError() {
	api := &fakePolygonAPI{iter: &fakeAggsIterator{items: s.sampleAggs(1)}}
	w := &mockWriter{
		outputPath: "AAPL.parquet",
		writeErr:   errors.New(errors.ErrCodeMarketDataWriteFailed, "disk full"),
	}

	client := &PolygonClient{api: api}
	client.ConfigWriter(w)

	_, err := client.Download(context.Background(), "AAPL", s.start, s.end, 1, models.Day, nil)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))
}

func (s *PolygonProviderTestSuite) TestDownloadReportsProgress() {
	api := &fakePolygonAPI{iter: &fakeAggsIterator{items: s.sampleAggs(2500)}}
	w := &mockWriter{outputPath: "AAPL.parquet"}

	client := &PolygonClient{api: api}
	client.ConfigWriter(w)

	var calls []float64
	onProgress := func(current, total float64, message string) {
		s.Greater(total, 0.0)
		s.NotEmpty(message)
		calls = append(calls, current)
	}

	_, err := client.Download(context.Background(), "AAPL", s.start, s.end, 1, models.Minute, onProgress)
	s.Require().NoError(err)

	// Two in-flight reports at 1000 and 2000 bars, then the completion one.
	s.Require().GreaterOrEqual(len(calls), 3)
	totalDays := float64(int(s.end.Sub(s.start).Hours()/24) + 1)
	s.InDelta(totalDays, calls[len(calls)-1], 1e-9)
}

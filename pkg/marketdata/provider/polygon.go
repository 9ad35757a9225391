package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
	"github.com/overline-lab/backstrat/pkg/marketdata/writer"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"
)

// polygonPageLimit is the maximum number of aggregates polygon returns per
// request page.
const polygonPageLimit = 50000

// PolygonAggsIterator is the slice of the polygon aggregates iterator the
// provider consumes.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the slice of the polygon REST client the provider
// needs. The real client satisfies it through a small adapter so tests can
// substitute a fake.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams) PolygonAggsIterator
}

type polygonRESTClient struct {
	client *polygon.Client
}

func (c *polygonRESTClient) ListAggs(ctx context.Context, params *models.ListAggsParams) PolygonAggsIterator {
	return c.client.ListAggs(ctx, params)
}

// PolygonClient downloads aggregate bars from the polygon.io REST API.
type PolygonClient struct {
	api    PolygonAPIClient
	writer writer.BarWriter
}

// NewPolygonClient creates a polygon provider authenticated with apiKey.
func NewPolygonClient(apiKey string) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon API key is required")
	}
	return &PolygonClient{
		api: &polygonRESTClient{client: polygon.New(apiKey)},
	}, nil
}

func (c *PolygonClient) ConfigWriter(w writer.BarWriter) {
	c.writer = w
}

func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (string, error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeInvalidConfiguration, "no writer configured")
	}
	if err := c.writer.Initialize(); err != nil {
		return "", err
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	bar := progressbar.NewOptions(totalDays,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s from polygon", ticker)),
		progressbar.OptionShowCount(),
	)

	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(polygonPageLimit)

	iter := c.api.ListAggs(ctx, params)
	count := 0
	for iter.Next() {
		item := iter.Item()
		err := c.writer.Write(types.Bar{
			Symbol: ticker,
			Time:   time.Time(item.Timestamp).UTC(),
			Open:   item.Open,
			High:   item.High,
			Low:    item.Low,
			Close:  item.Close,
			Volume: item.Volume,
		})
		if err != nil {
			return "", err
		}
		count++

		if count%1000 == 0 {
			daysElapsed := int(time.Time(item.Timestamp).Sub(startDate).Hours() / 24)
			_ = bar.Set(daysElapsed)
			if onProgress != nil {
				onProgress(float64(daysElapsed), float64(totalDays), fmt.Sprintf("downloaded %d bars of %s", count, ticker))
			}
		}
	}
	if err := iter.Err(); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "polygon download of %s failed", ticker)
	}
	_ = bar.Finish()

	path, err := c.writer.Finalize()
	if err != nil {
		return "", err
	}
	if onProgress != nil {
		onProgress(float64(totalDays), float64(totalDays), fmt.Sprintf("downloaded %d bars of %s", count, ticker))
	}
	return path, nil
}

package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
	"github.com/overline-lab/backstrat/pkg/marketdata/writer"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"
)

// binanceMaxKlines is the largest page the klines endpoint returns. A page
// shorter than this means the range is exhausted.
const binanceMaxKlines = 500

// BinanceKlinesService mirrors the builder surface of the binance klines
// endpoint so tests can substitute a fake.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Do(ctx context.Context, opts ...binance.RequestOption) ([]*binance.Kline, error)
}

// BinanceAPIClient is the slice of the binance REST client the provider
// needs.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type binanceRESTClient struct {
	client *binance.Client
}

func (c *binanceRESTClient) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesService{svc: c.client.NewKlinesService()}
}

type binanceKlinesService struct {
	svc *binance.KlinesService
}

func (s *binanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	s.svc = s.svc.Symbol(symbol)
	return s
}

func (s *binanceKlinesService) Interval(interval string) BinanceKlinesService {
	s.svc = s.svc.Interval(interval)
	return s
}

func (s *binanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	s.svc = s.svc.StartTime(startTime)
	return s
}

func (s *binanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	s.svc = s.svc.EndTime(endTime)
	return s
}

func (s *binanceKlinesService) Do(ctx context.Context, opts ...binance.RequestOption) ([]*binance.Kline, error) {
	return s.svc.Do(ctx, opts...)
}

// BinanceClient downloads kline bars from the binance public API. The klines
// endpoint pages at 500 rows, so long ranges are fetched page by page with
// the start time advanced past the last close time of each page.
type BinanceClient struct {
	api    BinanceAPIClient
	writer writer.BarWriter
}

// NewBinanceClient creates a binance provider. Historical klines are public
// data, no credentials are needed.
func NewBinanceClient() (*BinanceClient, error) {
	return &BinanceClient{
		api: &binanceRESTClient{client: binance.NewClient("", "")},
	}, nil
}

func (c *BinanceClient) ConfigWriter(w writer.BarWriter) {
	c.writer = w
}

func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (string, error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeInvalidConfiguration, "no writer configured")
	}

	interval, err := convertTimespanToBinanceInterval(multiplier, timespan)
	if err != nil {
		return "", err
	}

	if err := c.writer.Initialize(); err != nil {
		return "", err
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	bar := progressbar.NewOptions(totalDays,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s from binance", ticker)),
		progressbar.OptionShowCount(),
	)

	currentStartTime := startDate.UnixMilli()
	endTime := endDate.UnixMilli()
	count := 0

	for {
		if err := ctx.Err(); err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "download cancelled", err)
		}

		klines, err := c.api.NewKlinesService().
			Symbol(ticker).
			Interval(interval).
			StartTime(currentStartTime).
			EndTime(endTime).
			Do(ctx)
		if err != nil {
			return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "binance download of %s failed", ticker)
		}
		if len(klines) == 0 {
			break
		}

		written, err := c.writeKlines(ticker, klines)
		if err != nil {
			return "", err
		}
		count += written

		lastKline := klines[len(klines)-1]
		daysElapsed := int(time.UnixMilli(lastKline.CloseTime).Sub(startDate).Hours() / 24)
		_ = bar.Set(daysElapsed)
		if onProgress != nil {
			onProgress(float64(daysElapsed), float64(totalDays), fmt.Sprintf("downloaded %d bars of %s", count, ticker))
		}

		if len(klines) < binanceMaxKlines {
			break
		}
		currentStartTime = lastKline.CloseTime + 1
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

func (c *BinanceClient) writeKlines(ticker string, klines []*binance.Kline) (int, error) {
	written := 0
	for _, k := range klines {
		bar, err := klineToBar(ticker, k)
		if err != nil {
			return written, err
		}
		if err := c.writer.Write(bar); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func klineToBar(ticker string, k *binance.Kline) (types.Bar, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "bad open price in %s kline at %d", ticker, k.OpenTime)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "bad high price in %s kline at %d", ticker, k.OpenTime)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "bad low price in %s kline at %d", ticker, k.OpenTime)
	}
	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "bad close price in %s kline at %d", ticker, k.OpenTime)
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "bad volume in %s kline at %d", ticker, k.OpenTime)
	}

	return types.Bar{
		Symbol: ticker,
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}

// convertTimespanToBinanceInterval maps a multiplier and timespan onto the
// interval notation the klines endpoint accepts. Binance only offers weekly
// and monthly intervals with a multiplier of one.
func convertTimespanToBinanceInterval(multiplier int, timespan models.Timespan) (string, error) {
	if multiplier < 1 {
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "multiplier must be at least 1, got %d", multiplier)
	}

	switch timespan {
	case models.Second:
		return fmt.Sprintf("%ds", multiplier), nil
	case models.Minute:
		return fmt.Sprintf("%dm", multiplier), nil
	case models.Hour:
		return fmt.Sprintf("%dh", multiplier), nil
	case models.Day:
		return fmt.Sprintf("%dd", multiplier), nil
	case models.Week:
		if multiplier != 1 {
			return "", errors.Newf(errors.ErrCodeInvalidTimespan, "binance only supports 1w weekly intervals, got %dw", multiplier)
		}
		return "1w", nil
	case models.Month:
		if multiplier != 1 {
			return "", errors.Newf(errors.ErrCodeInvalidTimespan, "binance only supports 1M monthly intervals, got %dM", multiplier)
		}
		return "1M", nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported timespan: %s", timespan)
	}
}

package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"WaveletDenoise/internal/model"

	"github.com/rs/zerolog"
)

// ErrNoData means the source answered but nothing usable came back.
var ErrNoData = errors.New("no price data")

// FetchError wraps a failure to reach or read the data source.
type FetchError struct {
	Source string
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s from %s: %v", e.Symbol, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, start, end time.Time) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, start, end), nil
}

func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.02*math.Sin(float64(i)/15) + 0.003*math.Sin(float64(i)*2.3))
		bars = append(bars, model.OHLCV{
			Time:     d,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p * 0.98,
			Volume:   1000000,
		})
		i++
	}
	return bars
}

// Collector turns fetcher output into an adjusted-close PriceSeries.
type Collector struct {
	Fetcher Fetcher
	log     zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log zerolog.Logger) *Collector {
	return &Collector{Fetcher: fetcher, log: log}
}

// Collect fetches daily bars for [start, end) and keeps only the adjusted
// close. Bars without a positive price and repeated dates are dropped.
func (c *Collector) Collect(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, start, end)
	if err != nil {
		return model.PriceSeries{}, &FetchError{Source: c.Fetcher.Name(), Symbol: symbol, Err: err}
	}

	series := model.PriceSeries{Symbol: symbol, Points: make([]model.PricePoint, 0, len(bars))}
	var last time.Time
	dropped := 0
	for _, b := range bars {
		v := b.AdjClose
		if v == 0 {
			v = b.Close
		}
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			dropped++
			continue
		}
		if len(series.Points) > 0 && !b.Time.After(last) {
			dropped++
			continue
		}
		series.Points = append(series.Points, model.PricePoint{Date: b.Time, Value: v})
		last = b.Time
	}
	if dropped > 0 {
		c.log.Warn().Str("symbol", symbol).Int("dropped", dropped).Msg("dropped unusable bars")
	}
	if series.Len() == 0 {
		return model.PriceSeries{}, fmt.Errorf("%s %s..%s: %w", symbol,
			start.Format("2006-01-02"), end.Format("2006-01-02"), ErrNoData)
	}

	c.log.Info().
		Str("symbol", symbol).
		Str("source", c.Fetcher.Name()).
		Int("points", series.Len()).
		Time("first", series.Points[0].Date).
		Time("last", series.Points[series.Len()-1].Date).
		Msg("price series collected")
	return series, nil
}

package model

import "time"

// OHLCV represents a single daily bar as returned by a data source.
type OHLCV struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64 // 0 when the source does not provide one
	Volume   float64
}

// PricePoint is one observation of a PriceSeries.
type PricePoint struct {
	Date  time.Time
	Value float64
}

// PriceSeries is an ordered, date-indexed price sequence. Dates are strictly
// increasing and values are positive. Treat it as read-only once built.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

func (s PriceSeries) Len() int { return len(s.Points) }

// Values returns a fresh slice of the series values.
func (s PriceSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Dates returns a fresh slice of the series index.
func (s PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// WithValues returns a series on the same index carrying the given values.
// len(values) must equal s.Len().
func (s PriceSeries) WithValues(values []float64) PriceSeries {
	points := make([]PricePoint, len(s.Points))
	for i, p := range s.Points {
		points[i] = PricePoint{Date: p.Date, Value: values[i]}
	}
	return PriceSeries{Symbol: s.Symbol, Points: points}
}

package tradier

import (
	"bytes"

	"github.com/bcdannyboy/stocsim/models"
	"github.com/xhhuango/json"
)

type QuoteHistory struct {
	History struct {
		Day Days `json:"day"`
	} `json:"history"`
}

type Day struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int     `json:"volume"`
}

// Days accepts both encodings Tradier uses: an array, or a bare object when
// the range holds a single day.
type Days []Day

func (d *Days) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = nil
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var day Day
		if err := json.Unmarshal(data, &day); err != nil {
			return err
		}
		*d = Days{day}
		return nil
	}
	var days []Day
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	*d = days
	return nil
}

// Closes returns the closing prices in date order.
func (q *QuoteHistory) Closes() []float64 {
	closes := make([]float64, len(q.History.Day))
	for i, day := range q.History.Day {
		closes[i] = day.Close
	}
	return closes
}

// Bars converts the history into OHLC bars for the range-based estimators.
func (q *QuoteHistory) Bars() []models.Bar {
	bars := make([]models.Bar, len(q.History.Day))
	for i, day := range q.History.Day {
		bars[i] = models.Bar{Open: day.Open, High: day.High, Low: day.Low, Close: day.Close}
	}
	return bars
}

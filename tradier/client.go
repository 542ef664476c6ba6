package tradier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/xhhuango/json"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.tradier.com/v1"
	dateLayout     = "2006-01-02"
)

// Client fetches market data from the Tradier brokerage API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewClient(token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     logger,
	}
}

// GetQuotes returns the price history of symbol between start and end
// inclusive. interval is one of daily, weekly or monthly.
func (c *Client) GetQuotes(ctx context.Context, symbol string, start, end time.Time, interval string) (*QuoteHistory, error) {
	if symbol == "" {
		return nil, fmt.Errorf("tradier: symbol is required")
	}
	if c.Token == "" {
		return nil, fmt.Errorf("tradier: API token is not set")
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("start", start.Format(dateLayout))
	q.Set("end", end.Format(dateLayout))
	q.Set("session_filter", "all")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/markets/history?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	req.Header.Add("Accept", "application/json")

	c.Logger.Debug("fetching quote history",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.String("start", start.Format(dateLayout)),
		zap.String("end", end.Format(dateLayout)),
	)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote history: %w", err)
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response data: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tradier returned %s: %s", resp.Status, truncate(responseData, 200))
	}

	quoteHistory := &QuoteHistory{}
	if err := json.Unmarshal(responseData, quoteHistory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response data: %w", err)
	}

	c.Logger.Debug("fetched quote history", zap.String("symbol", symbol), zap.Int("days", len(quoteHistory.History.Day)))
	return quoteHistory, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

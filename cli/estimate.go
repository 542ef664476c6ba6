package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/bcdannyboy/stocsim/models"
	"github.com/bcdannyboy/stocsim/tradier"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type estimateResult struct {
	Symbol     string             `json:"symbol"`
	Start      string             `json:"start"`
	End        string             `json:"end"`
	Days       int                `json:"days"`
	Mu         float64            `json:"mu"`
	Sigma      float64            `json:"sigma"`
	RangeBased map[string]float64 `json:"range_based"`
}

func newEstimateCommand(a *app) *cobra.Command {
	var (
		symbol, baseURL string
		lookback        int
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate annualized drift and volatility from Tradier daily history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.TradierKey == "" {
				return fmt.Errorf("TRADIER_KEY is not set")
			}
			client := tradier.NewClient(a.cfg.TradierKey, a.log.Named("tradier"))
			if baseURL != "" {
				client.BaseURL = baseURL
			}

			end := time.Now()
			start := end.AddDate(0, 0, -lookback)
			history, err := client.GetQuotes(cmd.Context(), strings.ToUpper(symbol), start, end, "daily")
			if err != nil {
				return err
			}

			mu, sigma, err := models.EstimateDriftVolatility(history.Closes(), models.TradingDaysPerYear)
			if err != nil {
				return err
			}

			res := estimateResult{
				Symbol:     strings.ToUpper(symbol),
				Start:      start.Format("2006-01-02"),
				End:        end.Format("2006-01-02"),
				Days:       len(history.History.Day),
				Mu:         mu,
				Sigma:      sigma,
				RangeBased: map[string]float64{},
			}
			bars := history.Bars()
			for _, m := range []models.VolatilityMethod{models.Parkinson, models.GarmanKlass, models.RogersSatchell, models.YangZhang, models.GARCH} {
				vol, err := models.EstimateVolatility(bars, m, models.TradingDaysPerYear)
				if err != nil {
					a.log.Warn("volatility estimate failed", zap.Stringer("method", m), zap.Error(err))
					continue
				}
				res.RangeBased[m.String()] = vol
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	f := cmd.Flags()
	f.StringVar(&symbol, "symbol", "SPY", "ticker symbol")
	f.IntVar(&lookback, "lookback", 365, "calendar days of history")
	f.StringVar(&baseURL, "base-url", "", "override the Tradier API base URL")
	return cmd
}

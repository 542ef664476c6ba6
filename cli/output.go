package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bcdannyboy/stocsim/plots"
	"github.com/xhhuango/json"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
)

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// savePlot renders p under the configured output directory and returns the path.
func (a *app) savePlot(p *plot.Plot, name string) (string, error) {
	if err := os.MkdirAll(a.cfg.Output, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(a.cfg.Output, name)
	if err := plots.Save(p, path); err != nil {
		return "", err
	}
	a.log.Info("plot saved", zap.String("path", path))
	return path, nil
}

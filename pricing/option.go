package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/bcdannyboy/stocsim/models"
)

// ErrInvalidParameter is the sentinel wrapped by every validation failure.
var ErrInvalidParameter = models.ErrInvalidParameter

// OptionType selects the payoff of a vanilla option. The zero value is invalid.
type OptionType int

const (
	Call OptionType = iota + 1
	Put
)

func (o OptionType) String() string {
	switch o {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return fmt.Sprintf("OptionType(%d)", int(o))
	}
}

// ParseOptionType accepts "call", "c", "put" and "p" in any case.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	default:
		return 0, models.Invalidf("option type must be call or put, got %q", s)
	}
}

func (o OptionType) validate() error {
	if o != Call && o != Put {
		return models.Invalidf("option type must be call or put, got %d", int(o))
	}
	return nil
}

// Payoff returns the exercise value of the option at spot s.
func (o OptionType) Payoff(s, k float64) float64 {
	if o == Call {
		return math.Max(s-k, 0)
	}
	return math.Max(k-s, 0)
}

// inTheMoney reports whether immediate exercise at s is worth more than nothing.
func (o OptionType) inTheMoney(s, k float64) bool {
	if o == Call {
		return s > k
	}
	return s < k
}

func validateStrike(k float64) error {
	if math.IsNaN(k) || math.IsInf(k, 0) || k <= 0 {
		return models.Invalidf("strike must be positive, got %v", k)
	}
	return nil
}

func validateRate(r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return models.Invalidf("risk-free rate must be finite, got %v", r)
	}
	return nil
}

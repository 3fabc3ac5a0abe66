package recommend

import (
	"github.com/shopspring/decimal"
)

// Config carries the presentation knobs of the engine. The arithmetic never
// reads these: CurrencySymbol only appears in explanation strings and
// PointValue is only applied when decorating a points-kind option with its
// rupee value.
type Config struct {
	CurrencySymbol string
	PointValue     decimal.Decimal
	Weights        ScoreWeights
}

const defaultCurrencySymbol = "₹"

// one reward point is worth ₹0.25 unless configured otherwise
var defaultPointValue = decimal.New(25, -2)

func DefaultConfig() Config {
	return Config{
		CurrencySymbol: defaultCurrencySymbol,
		PointValue:     defaultPointValue,
		Weights:        DefaultScoreWeights(),
	}
}

package serving

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mariushelf/gekkopy/model"
)

// Validator handles request validation separate from HTTP concerns
type Validator struct {
	maxRows       int
	maxNameLength int
}

var (
	validatorInstance *Validator
	validatorOnce     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	validatorOnce.Do(func() {
		validatorInstance = &Validator{
			// Limit request sizes to prevent DoS
			maxRows:       10000,
			maxNameLength: 100,
		}
	})
	return validatorInstance
}

// ValidateStrategyName validates the strategy name path parameter
func (v *Validator) ValidateStrategyName(name string) error {
	if name == "" {
		return errors.New("strategy name is required")
	}
	if len(name) > v.maxNameLength {
		return fmt.Errorf("strategy name exceeds %d characters", v.maxNameLength)
	}
	if strings.ContainsFunc(name, func(r rune) bool { return r < 32 || r == 127 }) {
		return errors.New("strategy name contains control characters")
	}
	return nil
}

// ValidateAdviceRequest validates decoded candle rows and converts them
// to model candles. It fails without converting anything when any row is
// malformed.
func (v *Validator) ValidateAdviceRequest(rows [][]float64) (model.Candles, error) {
	if len(rows) == 0 {
		return nil, errors.New("request body must contain at least one candle row")
	}
	if len(rows) > v.maxRows {
		return nil, fmt.Errorf("request body has %d candle rows, limit is %d", len(rows), v.maxRows)
	}

	candles := make(model.Candles, 0, len(rows))
	for i, row := range rows {
		candle, err := model.CandleFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("candle row %d: %w", i, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

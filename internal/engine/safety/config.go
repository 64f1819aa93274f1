// internal/engine/safety/config.go
package safety

type Config struct {
	// ExactBandPercent is the absolute wrapper variance below which the
	// wrapper total and children sum are considered the same number.
	ExactBandPercent float64

	// TaxTrapBandLowPercent..TaxTrapBandHighPercent is the variance band
	// where US sales tax plus freight typically falls. A wrapper running
	// ahead of its children by this much usually means the children were
	// linked to subtotals instead of totals.
	TaxTrapBandLowPercent  float64
	TaxTrapBandHighPercent float64

	// VarianceWarningFloorPercent: children exceeding the wrapper by more
	// than this (negative variance) means double counting.
	VarianceWarningFloorPercent float64

	SoftMatchVariancePercent float64

	// ExtremeBidVariancePercent: a bid this far from the market likely
	// value, and outside the range, is an outlier either way.
	ExtremeBidVariancePercent float64
}

func DefaultConfig() *Config {
	return &Config{
		ExactBandPercent:            0.5,
		TaxTrapBandLowPercent:       4,
		TaxTrapBandHighPercent:      12,
		VarianceWarningFloorPercent: -1,
		SoftMatchVariancePercent:    8,
		ExtremeBidVariancePercent:   15,
	}
}

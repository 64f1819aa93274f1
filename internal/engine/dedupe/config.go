// internal/engine/dedupe/config.go
package dedupe

// SoftMatchVariancePercent is the widest variance the engine will still call
// a soft match. Above this, two amounts are simply different costs.
const SoftMatchVariancePercent = 8.0

// ExactMatchTolerance absorbs currency rounding. Two amounts closer than one
// cent are the same amount.
const ExactMatchTolerance = 0.01

type Config struct {
	SoftMatchVariancePercent float64
	ExactMatchTolerance      float64
}

func DefaultConfig() *Config {
	return &Config{
		SoftMatchVariancePercent: SoftMatchVariancePercent,
		ExactMatchTolerance:      ExactMatchTolerance,
	}
}

// internal/engine/conflicts/dimensions.go
package conflicts

import (
	"regexp"
	"strconv"
)

// Dimension is one parsed WxH pair, normalized to inches.
type Dimension struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Raw    string  `json:"raw"`
}

// DimensionExtractor is the pluggable text-matching strategy behind
// ScanForSpecVariances. The regex implementation below is inherently heuristic;
// keeping it behind this interface means a stronger parser can be swapped in
// without touching the conflict policy.
type DimensionExtractor interface {
	Extract(text string) []Dimension
}

// regexExtractor covers the common blueprint notations. Pattern order is
// fixed and the first pattern that matches anywhere in the text wins; on
// text mixing notations this precedence decides which reading is used.
type regexExtractor struct{}

// NewRegexExtractor returns the default dimension extractor.
func NewRegexExtractor() DimensionExtractor {
	return regexExtractor{}
}

var dimensionPatterns = []*regexp.Regexp{
	// 36x80, 36 x 80
	regexp.MustCompile(`\b(\d{1,3})\s*[xX]\s*(\d{1,3})\b`),
	// 36"x80"
	regexp.MustCompile(`(\d{1,3})\s*"\s*[xX]\s*(\d{1,3})\s*"`),
	// 3'x6'-8"  (feet, optional trailing inches)
	regexp.MustCompile(`(\d{1,2})'(?:-(\d{1,2})")?\s*[xX]\s*(\d{1,2})'(?:-(\d{1,2})")?`),
}

func (regexExtractor) Extract(text string) []Dimension {
	for i, pattern := range dimensionPatterns {
		matches := pattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}

		dims := make([]Dimension, 0, len(matches))
		for _, m := range matches {
			if i < 2 {
				w, _ := strconv.ParseFloat(m[1], 64)
				h, _ := strconv.ParseFloat(m[2], 64)
				dims = append(dims, Dimension{Width: w, Height: h, Raw: m[0]})
			} else {
				wf, _ := strconv.ParseFloat(m[1], 64)
				wi, _ := strconv.ParseFloat(m[2], 64)
				hf, _ := strconv.ParseFloat(m[3], 64)
				hi, _ := strconv.ParseFloat(m[4], 64)
				dims = append(dims, Dimension{
					Width:  wf*12 + wi,
					Height: hf*12 + hi,
					Raw:    m[0],
				})
			}
		}
		return dims
	}

	return nil
}

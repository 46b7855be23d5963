package service

import (
	"regexp"
	"strings"

	"variant-service/internal/variants/model"
)

type patternRule struct {
	pattern model.Pattern
	re      *regexp.Regexp
}

// DetectPattern classifies a group's SKU convention from its first SKU.
// Compound shapes are tried before their parts, so HV-VEST-S-OR is
// size-color rather than color-suffix.
func (d *Detector) DetectPattern(skus []string) model.Pattern {
	if len(skus) < 2 {
		return model.PatternUnknown
	}
	first := strings.ToUpper(strings.TrimSpace(skus[0]))
	for _, p := range d.c.patterns {
		if p.re.MatchString(first) {
			return p.pattern
		}
	}
	return model.PatternCustom
}

package service

import "strings"

const (
	CategoryElectricMotors = "Electric Motors"
	CategoryApparel        = "Apparel"
	CategoryFootwear       = "Footwear"
	CategorySizedProducts  = "Sized Products"
)

var motorHeaderHints = []string{"hp", "horsepower", "rpm", "voltage", "frame"}

type categoryRule struct {
	category string
	match    func(has func(...string) bool) bool
}

var categoryRules = []categoryRule{
	{CategoryElectricMotors, func(has func(...string) bool) bool { return has(motorHeaderHints...) }},
	{CategoryApparel, func(has func(...string) bool) bool { return has("size") && has("color", "colour") }},
	{CategoryFootwear, func(has func(...string) bool) bool { return has("size") && has("width") }},
	{CategorySizedProducts, func(has func(...string) bool) bool { return has("size") }},
}

// DetectCategoryFromHeaders guesses a catalog category from spreadsheet
// column headers. First matching rule wins.
func DetectCategoryFromHeaders(headers []string) (string, bool) {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}
	// has reports whether any header contains any of the words
	has := func(words ...string) bool {
		for _, h := range lower {
			for _, w := range words {
				if strings.Contains(h, w) {
					return true
				}
			}
		}
		return false
	}
	for _, r := range categoryRules {
		if r.match(has) {
			return r.category, true
		}
	}
	return "", false
}

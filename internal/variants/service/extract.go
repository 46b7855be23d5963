package service

import (
	"regexp"
	"strings"
)

// baseRule is one step of the base part number cascade. match reports
// whether the rule applies to the normalized SKU and what base it yields.
type baseRule struct {
	name  string
	match func(sku string) (string, bool)
}

var (
	// 1006980-7, 1006980-8.5, 1006980-11.5D
	reNumericBase = regexp.MustCompile(`^(\d{5,8})-\d+(?:\.\d+)?[A-Z]*$`)
	// K-1006980-7, K-1007969-9EE
	rePrefixedNumericBase = regexp.MustCompile(`^[A-Z]+-(\d{5,8})-\d+(?:\.\d+)?[A-Z]*$`)
	// vendor part numbers: short letter code, 6-8 digit base, size with width
	reVendorPart = regexp.MustCompile(`^[A-Z]{1,4}-(\d{6,8})-\d+(?:\.\d+)?[A-Z]{0,4}$`)

	reDigits5to8 = regexp.MustCompile(`^\d{5,8}$`)
	reDigits6to8 = regexp.MustCompile(`^\d{6,8}$`)
)

func submatch(re *regexp.Regexp) func(string) (string, bool) {
	return func(sku string) (string, bool) {
		m := re.FindStringSubmatch(sku)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

// baseRules: more specific numeric shapes before the generic segment heuristic.
func (d *Detector) baseRules() []baseRule {
	return []baseRule{
		{"numeric-base", submatch(reNumericBase)},
		{"prefixed-numeric-base", submatch(rePrefixedNumericBase)},
		{"vendor-part", submatch(reVendorPart)},
		{"segments", d.segmentBase},
		{"trailing-size", d.trailingSizeBase},
	}
}

// ExtractBasePartNumber returns the canonical base of sku. Unrecognised
// shapes come back upper-cased and trimmed; empty input gives "".
// Rules are reapplied until the base no longer changes, so a base is its
// own base: A-B-C-XL gives A, not A-B-C.
func (d *Detector) ExtractBasePartNumber(sku string) string {
	s := strings.ToUpper(strings.TrimSpace(sku))
	if s == "" {
		return ""
	}
	for {
		base, _, ok := d.applyRules(s)
		if !ok || base == s {
			return s
		}
		s = base
	}
}

// MatchedRule reports which rule produced the first cut, "identity" if none did.
func (d *Detector) MatchedRule(sku string) string {
	s := strings.ToUpper(strings.TrimSpace(sku))
	if s == "" {
		return ""
	}
	if _, name, ok := d.applyRules(s); ok {
		return name
	}
	return "identity"
}

// applyRules runs the cascade once over a normalized SKU. Every rule
// yields a strictly shorter, non-empty base.
func (d *Detector) applyRules(s string) (string, string, bool) {
	for _, r := range d.rules {
		if base, ok := r.match(s); ok && base != "" {
			return base, r.name, true
		}
	}
	return "", "", false
}

func (d *Detector) segmentBase(sku string) (string, bool) {
	segs := strings.Split(sku, "-")
	n := len(segs)
	if n < 3 {
		return "", false
	}
	last, prev, first := segs[n-1], segs[n-2], segs[0]
	// "--", "-XL-RED": nothing to anchor a base on
	if first == "" {
		return "", false
	}

	// vendor codes that embed the real product number mid-string
	if reDigits6to8.MatchString(prev) {
		return prev, true
	}

	if d.isVariantToken(last) {
		rest := segs[:n-1]
		if len(rest) > 1 && d.isVariantToken(rest[len(rest)-1]) {
			rest = rest[:len(rest)-1]
		}
		return strings.Join(rest, "-"), true
	}

	switch {
	case len(first) >= 2 && len(first) <= 4:
		// MTR-1-115-1
		return first + "-" + segs[1], true
	case len(first) == 1 && reDigits5to8.MatchString(segs[1]):
		return segs[1], true
	}
	return first, true
}

func (d *Detector) isVariantToken(seg string) bool {
	return d.c.isSize(seg) || d.c.isColor(seg)
}

// trailingSizeBase handles dashless SKUs like ABC123XL.
func (d *Detector) trailingSizeBase(sku string) (string, bool) {
	if strings.Contains(sku, "-") {
		return "", false
	}
	m := d.c.trailingSize.FindStringSubmatch(sku)
	if m == nil {
		return "", false
	}
	return m[1], true
}

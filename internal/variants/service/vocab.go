package service

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"variant-service/internal/variants/model"
)

// Vocabulary holds the token tables the heuristics match against.
// Catalogs with other conventions override it from a YAML file.
type Vocabulary struct {
	SizeTokens        []string `yaml:"size_tokens" json:"sizeTokens"`
	ColorTokens       []string `yaml:"color_tokens" json:"colorTokens"`
	WidthCodes        []string `yaml:"width_codes" json:"widthCodes"`
	PriceFields       []string `yaml:"price_fields" json:"priceFields"`
	BookkeepingFields []string `yaml:"bookkeeping_fields" json:"bookkeepingFields"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		SizeTokens: []string{"XXS", "XS", "S", "M", "L", "XL", "XXL", "XXXL"},
		ColorTokens: []string{
			"RED", "BLUE", "GREEN", "BLACK", "WHITE", "ORANGE", "YELLOW", "NAVY", "GREY", "GRAY",
			"OR", "BL", "GR", "WH", "BK", "YL",
		},
		WidthCodes: []string{"D", "E", "EE", "EEE", "EEEE", "4E", "6E", "W", "N", "M", "B", "C", "AA", "AAA"},
		PriceFields: []string{
			model.ColStockQuantity, model.ColBasePrice, model.ColSalePrice,
			model.ColGSAPrice, model.ColCostPrice, model.ColWholesalePrice,
		},
		BookkeepingFields: []string{model.ColSKU, model.ColRowNumber, model.ColRawData, model.ColMetadata},
	}
}

// LoadVocabulary reads a YAML override file; lists left empty keep their defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	v := DefaultVocabulary()
	if path == "" {
		return v, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	var over Vocabulary
	if err := yaml.Unmarshal(b, &over); err != nil {
		return v, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	if len(over.SizeTokens) > 0 {
		v.SizeTokens = over.SizeTokens
	}
	if len(over.ColorTokens) > 0 {
		v.ColorTokens = over.ColorTokens
	}
	if len(over.WidthCodes) > 0 {
		v.WidthCodes = over.WidthCodes
	}
	if len(over.PriceFields) > 0 {
		v.PriceFields = over.PriceFields
	}
	if len(over.BookkeepingFields) > 0 {
		v.BookkeepingFields = over.BookkeepingFields
	}
	return v, nil
}

// compiled is the regex/set form of a Vocabulary, built once per Detector.
type compiled struct {
	sizeToken    *regexp.Regexp      // whole segment is a size
	sizeWidth    *regexp.Regexp      // 11.5D, 9EE
	trailingSize *regexp.Regexp      // ABC123XL
	colors       map[string]struct{} // upper-cased colour tokens
	widths       map[string]struct{}
	price        map[string]struct{}
	bookkeeping  map[string]struct{}

	cleaners []*regexp.Regexp
	patterns []patternRule
}

func compile(v Vocabulary) *compiled {
	sizes := alternation(v.SizeTokens)
	widths := alternation(v.WidthCodes)
	colors := alternation(v.ColorTokens)
	colorNames := alternation(longTokens(v.ColorTokens))

	c := &compiled{
		sizeToken:    regexp.MustCompile(`^(?:` + sizes + `|\d+(?:\.\d+)?|W\d+)$`),
		sizeWidth:    regexp.MustCompile(`^(\d+(?:\.\d+)?)(` + widths + `)$`),
		trailingSize: regexp.MustCompile(`^(.*\d)(?:` + sizes + `)$`),
		colors:       upperSet(v.ColorTokens),
		widths:       upperSet(v.WidthCodes),
		price:        set(v.PriceFields),
		bookkeeping:  set(v.BookkeepingFields),
	}

	// order matters: phrases first, then bare trailing tokens
	c.cleaners = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s*[-,/]?\s*\bsize\s*:\s*[\w.]+`),
		regexp.MustCompile(`(?i)\s*[-,/]?\s*\bcolou?r\s*:\s*\w+`),
		regexp.MustCompile(`(?i)(?:^|\s+|\s*[-,/]\s*)\(?(?:` + sizes + `)\)?\s*$`),
		regexp.MustCompile(`(?i)(?:^|\s+|\s*[-,/]\s*)\(?(?:` + colorNames + `)\)?\s*$`),
	}

	c.patterns = []patternRule{
		{model.PatternNumericSize, regexp.MustCompile(`\d{5,8}-\d+(?:\.\d+)?[A-Z]*$`)},
		{model.PatternSizeColor, regexp.MustCompile(`-(?:` + sizes + `|\d+(?:\.\d+)?)-(?:` + colors + `)$`)},
		{model.PatternSizeCode, regexp.MustCompile(`-(?:` + sizes + `)$`)},
		{model.PatternColorSuffix, regexp.MustCompile(`-(?:` + colors + `)$`)},
	}
	return c
}

func (c *compiled) isSize(tok string) bool  { return c.sizeToken.MatchString(tok) }
func (c *compiled) isColor(tok string) bool { _, ok := c.colors[tok]; return ok }
func (c *compiled) isWidth(tok string) bool { _, ok := c.widths[tok]; return ok }

// alternation quotes tokens and orders them longest first so XXL wins over XL.
func alternation(tokens []string) string {
	t := make([]string, 0, len(tokens))
	for _, s := range tokens {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			t = append(t, regexp.QuoteMeta(s))
		}
	}
	sort.SliceStable(t, func(i, j int) bool { return len(t[i]) > len(t[j]) })
	if len(t) == 0 {
		// matches nothing
		return `[^\x00-\x{10FFFF}]`
	}
	return strings.Join(t, "|")
}

// longTokens keeps full colour names; two-letter codes are too ambiguous for display names.
func longTokens(tokens []string) []string {
	var out []string
	for _, s := range tokens {
		if len(strings.TrimSpace(s)) > 2 {
			out = append(out, s)
		}
	}
	return out
}

func upperSet(tokens []string) map[string]struct{} {
	m := make(map[string]struct{}, len(tokens))
	for _, s := range tokens {
		m[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	return m
}

func set(items []string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, s := range items {
		m[s] = struct{}{}
	}
	return m
}

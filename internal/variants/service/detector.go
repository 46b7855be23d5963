package service

import (
	"github.com/rs/zerolog"

	"variant-service/internal/variants/model"
)

// Detector runs the variant heuristics over one vocabulary.
// It is immutable after NewDetector and safe for concurrent use.
type Detector struct {
	vocab Vocabulary
	c     *compiled
	rules []baseRule
	opt   model.Options
	log   zerolog.Logger
}

type Option func(*Detector)

func WithOptions(opt model.Options) Option {
	return func(d *Detector) { d.opt = opt }
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *Detector) { d.log = l }
}

func NewDetector(v Vocabulary, opts ...Option) *Detector {
	d := &Detector{
		vocab: v,
		c:     compile(v),
		log:   zerolog.Nop(),
	}
	d.rules = d.baseRules()
	for _, o := range opts {
		o(d)
	}
	return d
}

// With returns a copy of d with other grouping options; compiled tables are shared.
func (d *Detector) With(opt model.Options) *Detector {
	cp := *d
	cp.opt = opt
	return &cp
}

func (d *Detector) Vocabulary() Vocabulary { return d.vocab }

var defaultDetector = NewDetector(DefaultVocabulary())

// Package-level helpers use the default vocabulary and options.

func ExtractBasePartNumber(sku string) string { return defaultDetector.ExtractBasePartNumber(sku) }

func ExtractVariantValue(sku, basePart string) string { return extractVariantValue(sku, basePart) }

func FindDifferingColumns(rows []model.Row) []string { return defaultDetector.FindDifferingColumns(rows) }

func GroupByBasePartNumber(rows []model.Row) model.DetectionResult {
	return defaultDetector.Group(rows)
}

func CleanBaseName(name string) string { return defaultDetector.CleanBaseName(name) }

func DetectPattern(skus []string) model.Pattern { return defaultDetector.DetectPattern(skus) }

func ParseVariantSuffix(suffix string, attributeNames ...string) map[string]string {
	return defaultDetector.ParseVariantSuffix(suffix, attributeNames...)
}

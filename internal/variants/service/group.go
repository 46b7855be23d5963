package service

import (
	"sort"
	"strings"

	"variant-service/internal/variants/model"
)

// FindDifferingColumns returns, sorted, the columns holding at least two
// distinct non-empty values across rows. One filled value among blanks is
// not variance.
func (d *Detector) FindDifferingColumns(rows []model.Row) []string {
	if len(rows) < 2 {
		return []string{}
	}
	var out []string
	for _, key := range d.candidateKeys(rows) {
		seen := make(map[string]struct{}, len(rows))
		for _, r := range rows {
			v := normValue(r.Value(key))
			if v == "" {
				continue
			}
			seen[v] = struct{}{}
			if len(seen) > 1 {
				out = append(out, key)
				break
			}
		}
	}
	sort.Strings(out)
	if out == nil {
		out = []string{}
	}
	return out
}

// candidateKeys: the first row's columns, or the union over rows with UnionKeys.
func (d *Detector) candidateKeys(rows []model.Row) []string {
	src := rows[:1]
	if d.opt.UnionKeys {
		src = rows
	}
	seen := map[string]struct{}{}
	var keys []string
	for _, r := range src {
		for _, k := range r.Keys() {
			if _, skip := d.c.bookkeeping[k]; skip {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

func normValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type bucket struct {
	base string
	rows []model.Row
}

// Group buckets rows by base part number and turns buckets with real
// attribute variance into VariantGroups. Everything else is standalone.
func (d *Detector) Group(rows []model.Row) model.DetectionResult {
	res := model.DetectionResult{
		Groups:             []model.VariantGroup{},
		StandaloneProducts: []model.Row{},
	}

	var order []*bucket
	byBase := map[string]*bucket{}
	for _, r := range rows {
		if strings.TrimSpace(r.SKU) == "" {
			continue
		}
		res.Stats.TotalRows++
		base := d.ExtractBasePartNumber(r.SKU)
		b, ok := byBase[base]
		if !ok {
			b = &bucket{base: base}
			byBase[base] = b
			order = append(order, b)
		}
		b.rows = append(b.rows, r)
	}

	for _, b := range order {
		if len(b.rows) == 1 {
			res.StandaloneProducts = append(res.StandaloneProducts, b.rows[0])
			continue
		}

		attrs := d.FindDifferingColumns(b.rows)
		meaningful := d.withoutPriceFields(attrs)
		reject := len(attrs) == 0 && len(meaningful) == 0
		if d.opt.RejectPriceOnly && len(meaningful) == 0 {
			reject = true
		}
		if reject {
			d.log.Debug().
				Str("base", b.base).
				Int("rows", len(b.rows)).
				Strs("diffs", attrs).
				Msg("grouping rejected: no attribute variance")
			res.StandaloneProducts = append(res.StandaloneProducts, b.rows...)
			continue
		}

		skus := make([]string, len(b.rows))
		for i, r := range b.rows {
			skus[i] = r.SKU
		}
		res.Groups = append(res.Groups, model.VariantGroup{
			BasePartNumber:    b.base,
			BaseName:          d.CleanBaseName(b.rows[0].Name),
			BaseRow:           b.rows[0],
			Variants:          b.rows,
			VariantAttributes: attrs,
			DetectedPattern:   d.DetectPattern(skus),
		})
	}

	res.Stats.GroupCount = len(res.Groups)
	for _, g := range res.Groups {
		res.Stats.TotalVariants += len(g.Variants)
	}
	res.Stats.StandaloneCount = len(res.StandaloneProducts)
	return res
}

func (d *Detector) withoutPriceFields(attrs []string) []string {
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if _, ok := d.c.price[a]; !ok {
			out = append(out, a)
		}
	}
	return out
}

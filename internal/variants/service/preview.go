package service

import "variant-service/internal/variants/model"

// Preview runs grouping and annotates every grouped row with its suffix,
// parsed attributes and display name, the way an importer would use them.
func (d *Detector) Preview(headers []string, rows []model.Row) model.Preview {
	res := d.Group(rows)
	p := model.Preview{
		Result:   res,
		Variants: make([]model.VariantPreview, 0, res.Stats.TotalVariants),
		Opts:     d.opt,
	}
	if cat, ok := DetectCategoryFromHeaders(headers); ok {
		p.CategoryHint = &cat
	}
	for _, g := range res.Groups {
		for _, v := range g.Variants {
			suffix := ExtractVariantValue(v.SKU, g.BasePartNumber)
			attrs := d.ParseVariantSuffix(suffix)
			p.Variants = append(p.Variants, model.VariantPreview{
				BasePartNumber: g.BasePartNumber,
				SKU:            v.SKU,
				RowNumber:      v.RowNumber,
				Suffix:         suffix,
				Attributes:     attrs,
				VariantName:    BuildVariantName(attrs),
			})
		}
	}
	return p
}

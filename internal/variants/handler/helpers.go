package handler

import (
	"regexp"
	"strconv"
	"strings"

	"variant-service/internal/fileio"
	"variant-service/internal/utils"
	"variant-service/internal/variants/model"
)

var reNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey: lower case, punctuation to single spaces.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "#", " number ").Replace(s)
	s = reNonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// columnAliases lists, per canonical column, the normalized headers vendors use for it.
var columnAliases = []struct {
	key     string
	aliases []string
}{
	{model.ColSKU, []string{"sku", "variant sku", "part number", "part no", "item number", "item no", "item code", "product code", "style number", "mpn"}},
	{model.ColName, []string{"name", "product name", "item name", "title", "description", "item description"}},
	{model.ColSalePrice, []string{"sale price", "special price", "promo price"}},
	{model.ColGSAPrice, []string{"gsa price", "gsa"}},
	{model.ColCostPrice, []string{"cost price", "cost", "unit cost"}},
	{model.ColWholesalePrice, []string{"wholesale price", "wholesale", "dealer price"}},
	{model.ColBasePrice, []string{"base price", "price", "list price", "msrp", "retail price"}},
	{model.ColStockQuantity, []string{"stock quantity", "stock", "qty", "quantity", "on hand", "inventory"}},
	{model.ColSize, []string{"size"}},
	{model.ColWidth, []string{"width"}},
	{model.ColColor, []string{"color", "colour"}},
}

const fuzzyHeaderThreshold = 0.8

var numericColumns = map[string]bool{
	model.ColBasePrice: true, model.ColSalePrice: true, model.ColGSAPrice: true,
	model.ColCostPrice: true, model.ColWholesalePrice: true, model.ColStockQuantity: true,
}

// columnMap maps sheet headers to canonical column names.
type columnMap struct {
	byHeader map[string]string
	skuHdr   string
	nameHdr  string
}

// mapHeaders resolves every header: overrides, then exact aliases, then the
// longest alias contained in the header, then near-misses by edit distance.
// The rest keep a normalized name.
func mapHeaders(headers []string, skuOverride, nameOverride string) columnMap {
	cm := columnMap{byHeader: make(map[string]string, len(headers))}
	taken := map[string]bool{}
	assign := func(h, key string) {
		cm.byHeader[h] = key
		taken[key] = true
		switch key {
		case model.ColSKU:
			cm.skuHdr = h
		case model.ColName:
			cm.nameHdr = h
		}
	}

	for _, o := range []struct{ hdr, key string }{{skuOverride, model.ColSKU}, {nameOverride, model.ColName}} {
		if h := resolveHeader(headers, o.hdr); h != "" {
			assign(h, o.key)
		}
	}

	// 1) exact alias
	for _, h := range headers {
		if _, done := cm.byHeader[h]; done {
			continue
		}
		n := normHeaderKey(h)
		for _, c := range columnAliases {
			if taken[c.key] {
				continue
			}
			if contains(c.aliases, n) {
				assign(h, c.key)
				break
			}
		}
	}

	// 2) partial: "Retail Price (USD)" contains "retail price"
	for _, h := range headers {
		if _, done := cm.byHeader[h]; done {
			continue
		}
		n := " " + normHeaderKey(h) + " "
		bestKey, bestLen := "", 0
		for _, c := range columnAliases {
			if taken[c.key] {
				continue
			}
			for _, a := range c.aliases {
				if strings.Contains(n, " "+a+" ") && len(a) > bestLen {
					bestKey, bestLen = c.key, len(a)
				}
			}
		}
		if bestKey != "" {
			assign(h, bestKey)
		}
	}

	// 3) typos: "Quantaty", "Colr"
	for _, h := range headers {
		if _, done := cm.byHeader[h]; done {
			continue
		}
		n := normHeaderKey(h)
		if len([]rune(n)) < 4 {
			continue
		}
		bestKey, best := "", fuzzyHeaderThreshold
		for _, c := range columnAliases {
			if taken[c.key] {
				continue
			}
			for _, a := range c.aliases {
				if s := similarity(n, a); s >= best {
					bestKey, best = c.key, s
				}
			}
		}
		if bestKey != "" {
			assign(h, bestKey)
		}
	}

	// 4) everything else keeps its own name
	for _, h := range headers {
		if _, done := cm.byHeader[h]; done {
			continue
		}
		key := normHeaderKey(h)
		if key == "" || taken[key] {
			key = h
		}
		cm.byHeader[h] = key
		taken[key] = true
	}
	return cm
}

// resolveHeader finds a header by name, tolerating case and punctuation.
func resolveHeader(headers []string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	nw := normHeaderKey(want)
	for _, h := range headers {
		if h == want || normHeaderKey(h) == nw {
			return h
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// toRows converts sheet records to engine rows. Repeated header lines
// (multi-page vendor exports) are skipped; numeric columns are canonicalized
// so "10.00" and "10" do not count as a difference.
func toRows(sheet fileio.Sheet, cm columnMap) []model.Row {
	rows := make([]model.Row, 0, len(sheet.Records))
	for _, rec := range sheet.Records {
		if looksLikeHeader(rec, cm) {
			continue
		}
		r := model.Row{
			RowNumber: rec.Line,
			SKU:       strings.TrimSpace(rec.Cells[cm.skuHdr]),
			Name:      strings.TrimSpace(rec.Cells[cm.nameHdr]),
			Fields:    make(map[string]string, len(rec.Cells)),
			RawData:   rec.Cells,
		}
		for h, v := range rec.Cells {
			key := cm.byHeader[h]
			if key == model.ColSKU || key == model.ColName {
				continue
			}
			v = strings.TrimSpace(v)
			if numericColumns[key] {
				v = utils.CanonicalNumber(v)
			}
			r.Fields[key] = v
		}
		rows = append(rows, r)
	}
	return rows
}

func looksLikeHeader(rec fileio.Record, cm columnMap) bool {
	if cm.skuHdr == "" {
		return false
	}
	v := strings.TrimSpace(rec.Cells[cm.skuHdr])
	return v != "" && normHeaderKey(v) == normHeaderKey(cm.skuHdr)
}

func atoi(s string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i < 1 {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

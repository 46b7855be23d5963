package service

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"variant-service/internal/variants/model"
)

var defaultAttributeNames = []string{model.ColSize, model.ColWidth, model.ColColor}

// extractVariantValue returns what is left of sku once basePart is cut out,
// without the separator between them. The match ignores case; the suffix
// keeps the casing of sku.
func extractVariantValue(sku, basePart string) string {
	raw := strings.TrimSpace(sku)
	s := strings.ToUpper(raw)
	b := strings.ToUpper(strings.TrimSpace(basePart))
	if s == "" || b == "" {
		return ""
	}
	i := strings.Index(s, b)
	if i < 0 {
		return ""
	}
	rest := s[i+len(b):]
	if len(s) == len(raw) {
		// upper-casing kept byte offsets, so slice the original
		rest = raw[i+len(b):]
	}
	if strings.HasPrefix(rest, "-") || strings.HasPrefix(rest, "_") {
		rest = rest[1:]
	}
	return rest
}

// suffixState tracks which attribute slots one ParseVariantSuffix call has filled.
type suffixState struct {
	names []string
	out   map[string]string
}

func (st *suffixState) has(k string) bool { _, ok := st.out[k]; return ok }

func (st *suffixState) setIfEmpty(k, v string) bool {
	if st.has(k) {
		return false
	}
	st.out[k] = v
	return true
}

// nextFree returns the first caller-supplied name not yet filled, else attrN.
func (st *suffixState) nextFree(partIdx int) string {
	for _, n := range st.names {
		if !st.has(n) {
			return n
		}
	}
	for i := partIdx + 1; ; i++ {
		k := "attr" + strconv.Itoa(i)
		if !st.has(k) {
			return k
		}
	}
}

// ParseVariantSuffix splits a suffix such as "11.5D" or "L-OR" into
// attribute values. Allocation is first match, first come.
func (d *Detector) ParseVariantSuffix(suffix string, attributeNames ...string) map[string]string {
	out := map[string]string{}
	s := strings.ToUpper(strings.TrimSpace(suffix))
	if s == "" {
		return out
	}
	if len(attributeNames) == 0 {
		attributeNames = defaultAttributeNames
	}

	if m := d.c.sizeWidth.FindStringSubmatch(s); m != nil {
		out[model.ColSize] = m[1]
		out[model.ColWidth] = m[2]
		return out
	}

	st := &suffixState{names: attributeNames, out: out}
	for i, part := range strings.Split(s, "-") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if m := d.c.sizeWidth.FindStringSubmatch(part); m != nil && !st.has(model.ColSize) {
			st.out[model.ColSize] = m[1]
			st.setIfEmpty(model.ColWidth, m[2])
			continue
		}
		if d.c.isSize(part) && st.setIfEmpty(model.ColSize, part) {
			continue
		}
		if d.c.isWidth(part) && st.setIfEmpty(model.ColWidth, part) {
			continue
		}
		if d.c.isColor(part) && st.setIfEmpty(model.ColColor, part) {
			continue
		}
		st.out[st.nextFree(i)] = part
	}
	return out
}

var knownAttributeOrder = map[string]int{model.ColSize: 0, model.ColWidth: 1, model.ColColor: 2}

// BuildVariantName renders {"size":"9","width":"EE"} as "Size: 9, Width: EE".
// size, width and color come first, other keys follow alphabetically.
func BuildVariantName(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k, v := range values {
		if strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, iok := knownAttributeOrder[keys[i]]
		oj, jok := knownAttributeOrder[keys[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		}
		return keys[i] < keys[j]
	})
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, capitalize(k)+": "+values[k])
	}
	return strings.Join(parts, ", ")
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

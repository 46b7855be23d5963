package model

// Pattern is the coarse SKU naming convention observed in a group.
type Pattern string

const (
	PatternNumericSize Pattern = "numeric-size" // 1006980-8.5
	PatternSizeCode    Pattern = "size-code"    // SHIRT-XL
	PatternColorSuffix Pattern = "color-suffix" // MUG-RED
	PatternSizeColor   Pattern = "size-color"   // HV-VEST-S-OR
	PatternCustom      Pattern = "custom"
	PatternUnknown     Pattern = "unknown"
)

// Canonical column names shared by the header mapper and the engine.
const (
	ColSKU            = "sku"
	ColName           = "name"
	ColRowNumber      = "rowNumber"
	ColRawData        = "rawData"
	ColMetadata       = "metadata"
	ColStockQuantity  = "stockQuantity"
	ColBasePrice      = "basePrice"
	ColSalePrice      = "salePrice"
	ColGSAPrice       = "gsaPrice"
	ColCostPrice      = "costPrice"
	ColWholesalePrice = "wholesalePrice"
	ColSize           = "size"
	ColWidth          = "width"
	ColColor          = "color"
)

// Row is one spreadsheet line after header mapping. The engine only reads it.
type Row struct {
	RowNumber int               `json:"rowNumber"`          // 1-based line in the source sheet
	SKU       string            `json:"sku"`                // the only required field
	Name      string            `json:"name"`               // display name
	Fields    map[string]string `json:"fields,omitempty"`   // other columns by canonical name
	RawData   map[string]string `json:"rawData,omitempty"`  // header -> cell as read
	Metadata  map[string]string `json:"metadata,omitempty"` // caller-owned notes
}

// Value returns the column value the differ sees for key.
func (r Row) Value(key string) string {
	switch key {
	case ColName:
		return r.Name
	case ColSKU:
		return r.SKU
	}
	return r.Fields[key]
}

// Keys lists the columns the differ considers present on the row.
func (r Row) Keys() []string {
	keys := make([]string, 0, len(r.Fields)+1)
	keys = append(keys, ColName)
	for k := range r.Fields {
		if k == ColName {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

type VariantGroup struct {
	BasePartNumber    string   `json:"basePartNumber"`
	BaseName          string   `json:"baseName"`
	BaseRow           Row      `json:"baseRow"`
	Variants          []Row    `json:"variants"`
	VariantAttributes []string `json:"variantAttributes"`
	DetectedPattern   Pattern  `json:"detectedPattern"`
}

type Stats struct {
	TotalRows       int `json:"totalRows"`
	GroupCount      int `json:"groupCount"`
	TotalVariants   int `json:"totalVariants"`
	StandaloneCount int `json:"standaloneCount"`
}

type DetectionResult struct {
	Groups             []VariantGroup `json:"groups"`
	StandaloneProducts []Row          `json:"standaloneProducts"`
	Stats              Stats          `json:"stats"`
}

// Options tune grouping; the zero value reproduces the reference behaviour.
type Options struct {
	UnionKeys       bool `json:"unionKeys"`       // diff over the union of keys in a bucket, not the first row's
	RejectPriceOnly bool `json:"rejectPriceOnly"` // demote buckets that differ only in price/stock
}

// VariantPreview is one grouped row annotated for catalog building.
type VariantPreview struct {
	BasePartNumber string            `json:"basePartNumber"`
	SKU            string            `json:"sku"`
	RowNumber      int               `json:"rowNumber"`
	Suffix         string            `json:"suffix"`
	Attributes     map[string]string `json:"attributes"`
	VariantName    string            `json:"variantName"`
}

type Preview struct {
	Result       DetectionResult  `json:"result"`
	CategoryHint *string          `json:"categoryHint"`
	Variants     []VariantPreview `json:"variants"`
	Opts         Options          `json:"opts"`
}

package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"variant-service/internal/config"
	"variant-service/internal/fileio"
	"variant-service/internal/middleware"
	"variant-service/internal/variants/model"
	"variant-service/internal/variants/service"
)

const bootsCSV = "Part #,Product Name,Size,Width,Retail Price (USD),Qty,Material\n" +
	"K-1007969-9EE,Work Boot,9,EE,$120.00,4,Leather\n" +
	"K-1007969-10.5EE,Work Boot,10.5,EE,120,2,Leather\n" +
	"Part #,Product Name,Size,Width,Retail Price (USD),Qty,Material\n" +
	"K-1007969-11D,Work Boot,11,D,120.0,0,Leather\n" +
	"GL-100,Work Glove,,,12,50,Cotton\n" +
	",Orphan,,,,,\n"

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestMapHeaders(t *testing.T) {
	headers := []string{"Part #", "Product Name", "Size", "Colour", "Retail Price (USD)", "Sale Price", "Quantaty", "Material", "Description"}
	cm := mapHeaders(headers, "", "")

	assert.Equal(t, "Part #", cm.skuHdr)
	assert.Equal(t, "Product Name", cm.nameHdr)
	assert.Equal(t, map[string]string{
		"Part #":             model.ColSKU,
		"Product Name":       model.ColName,
		"Size":               model.ColSize,
		"Colour":             model.ColColor,
		"Retail Price (USD)": model.ColBasePrice,
		"Sale Price":         model.ColSalePrice,
		"Quantaty":           model.ColStockQuantity,
		"Material":           "material",
		"Description":        "description",
	}, cm.byHeader)
}

func TestMapHeaders_Overrides(t *testing.T) {
	cm := mapHeaders([]string{"Code", "SKU", "Label"}, "code", "LABEL")
	assert.Equal(t, "Code", cm.skuHdr)
	assert.Equal(t, "Label", cm.nameHdr)
	assert.Equal(t, "SKU", cm.byHeader["SKU"], "sku already taken, header keeps its own name")
}

func TestToRows(t *testing.T) {
	sheet, err := fileio.ReadSheet(strings.NewReader(bootsCSV), "boots.csv", 1)
	require.NoError(t, err)
	rows := toRows(sheet, mapHeaders(sheet.Headers, "", ""))

	require.Len(t, rows, 5, "repeated header line is dropped")
	assert.Equal(t, 2, rows[0].RowNumber)
	assert.Equal(t, "K-1007969-9EE", rows[0].SKU)
	assert.Equal(t, "Work Boot", rows[0].Name)
	assert.Equal(t, "120", rows[0].Fields[model.ColBasePrice])
	assert.Equal(t, "120", rows[1].Fields[model.ColBasePrice])
	assert.Equal(t, "4", rows[0].Fields[model.ColStockQuantity])
	assert.Equal(t, "$120.00", rows[0].RawData["Retail Price (USD)"])
	assert.Equal(t, 5, rows[2].RowNumber)
}

func TestDetect(t *testing.T) {
	det := service.NewDetector(service.DefaultVocabulary())
	body, ct := multipartBody(t, "boots.csv", bootsCSV, nil)
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	Detect(config.Config{DefaultHeaderRow: 1}, det).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp detectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	res := resp.Result
	assert.Equal(t, model.Stats{TotalRows: 4, GroupCount: 1, TotalVariants: 3, StandaloneCount: 1}, res.Stats)
	require.Len(t, res.Groups, 1)
	g := res.Groups[0]
	assert.Equal(t, "1007969", g.BasePartNumber)
	assert.Equal(t, "Work Boot", g.BaseName)
	assert.Equal(t, model.PatternNumericSize, g.DetectedPattern)
	assert.Equal(t, []string{"size", "stockQuantity", "width"}, g.VariantAttributes)
	assert.Equal(t, "GL-100", res.StandaloneProducts[0].SKU)

	require.NotNil(t, resp.CategoryHint)
	assert.Equal(t, service.CategoryFootwear, *resp.CategoryHint)
	require.Len(t, resp.Variants, 3)
	assert.Equal(t, map[string]string{"size": "10.5", "width": "EE"}, resp.Variants[1].Attributes)
	assert.Equal(t, "Size: 11, Width: D", resp.Variants[2].VariantName)
	assert.Equal(t, model.ColSKU, resp.Columns["Part #"])
}

func TestDetect_Errors(t *testing.T) {
	det := service.NewDetector(service.DefaultVocabulary())
	h := Detect(config.Config{DefaultHeaderRow: 1}, det)

	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{"unsupported type", "catalog.pdf", "%PDF"},
		{"no sku column", "list.csv", "Title,Price\nBoot,10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.filename, tt.content, nil)
			req := httptest.NewRequest(http.MethodPost, "/detect", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/detect", strings.NewReader("not multipart")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetect_RejectPriceOnly(t *testing.T) {
	det := service.NewDetector(service.DefaultVocabulary())
	csv := "SKU,Name,Price\n1006980-7,Boot,10\n1006980-8,Boot,12\n"

	for _, tt := range []struct {
		flag   string
		groups int
	}{{"false", 1}, {"true", 0}} {
		body, ct := multipartBody(t, "boots.csv", csv, map[string]string{"reject_price_only": tt.flag})
		req := httptest.NewRequest(http.MethodPost, "/detect", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		Detect(config.Config{DefaultHeaderRow: 1}, det).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp detectResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tt.groups, resp.Result.Stats.GroupCount, "reject_price_only=%s", tt.flag)
		assert.Equal(t, tt.flag == "true", resp.Opts.RejectPriceOnly)
	}
}

func TestSuffix(t *testing.T) {
	det := service.NewDetector(service.DefaultVocabulary())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/suffix", strings.NewReader(`{"suffix":"L-OR"}`))
	Suffix(det).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"attributes":{"size":"L","color":"OR"},"variantName":"Size: L, Color: OR"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Suffix(det).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/suffix", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorBodyCarriesRequestID(t *testing.T) {
	det := service.NewDetector(service.DefaultVocabulary())
	h := middleware.RequestID(zerolog.Nop())(Suffix(det))

	req := httptest.NewRequest(http.MethodPost, "/suffix", strings.NewReader(`{`))
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "req-42", body["rid"])
	assert.Contains(t, body["error"], "bad json")

	rec = httptest.NewRecorder()
	Suffix(det).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/suffix", strings.NewReader(`{`)))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, ok := body["rid"]
	assert.False(t, ok, "no rid outside the middleware chain")
}

func TestCategory(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/category", strings.NewReader(`{"headers":["SKU","HP","RPM"]}`))
	Category().ServeHTTP(rec, req)
	assert.JSONEq(t, `{"category":"Electric Motors"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/category", strings.NewReader(`{"headers":["SKU"]}`))
	Category().ServeHTTP(rec, req)
	assert.JSONEq(t, `{"category":null}`, rec.Body.String())
}

func TestBase(t *testing.T) {
	det := service.NewDetector(service.DefaultVocabulary())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/base", strings.NewReader(`{"skus":["K-1007969-11.5D","ABC-001"]}`))
	Base(det).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[
		{"sku":"K-1007969-11.5D","base":"1007969","suffix":"11.5D","rule":"prefixed-numeric-base"},
		{"sku":"ABC-001","base":"ABC-001","suffix":"","rule":"identity"}
	]}`, rec.Body.String())
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 0, damerauLevenshtein("size", "size"))
	assert.Equal(t, 1, damerauLevenshtein("colro", "color"))
	assert.Equal(t, 3, damerauLevenshtein("kitten", "sitting"))
	assert.InDelta(t, 0.875, similarity("quantaty", "quantity"), 1e-9)
	assert.Equal(t, 1.0, similarity("", ""))
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"variant-service/internal/config"
	"variant-service/internal/fileio"
	"variant-service/internal/middleware"
	"variant-service/internal/variants/model"
	"variant-service/internal/variants/service"
)

type detectResponse struct {
	model.Preview
	Columns map[string]string `json:"columns"` // sheet header -> canonical column
}

// Detect accepts a multipart upload ("file") and answers with the
// variant grouping preview for its first sheet.
//
//	r.Post("/detect", varHnd.Detect(cfg, det))
func Detect(cfg config.Config, det *service.Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := zerolog.Ctx(r.Context())

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeError(w, r, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "missing file: "+err.Error())
			return
		}
		defer file.Close()

		headerRow := atoi(r.FormValue("header_row"), cfg.DefaultHeaderRow)
		sheet, err := fileio.ReadSheet(file, header.Filename, headerRow)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		cm := mapHeaders(sheet.Headers, r.FormValue("sku_column"), r.FormValue("name_column"))
		if cm.skuHdr == "" {
			writeError(w, r, http.StatusBadRequest, "no SKU column found in headers")
			return
		}

		opt := model.Options{
			UnionKeys:       toBool(r.FormValue("union_keys"), false),
			RejectPriceOnly: toBool(r.FormValue("reject_price_only"), false),
		}
		rows := toRows(sheet, cm)
		preview := det.With(opt).Preview(sheet.Headers, rows)

		log.Debug().
			Str("sku_column", cm.skuHdr).
			Str("name_column", cm.nameHdr).
			Int("header_row", headerRow).
			Msg("columns resolved")

		writeJSON(w, r, http.StatusOK, detectResponse{Preview: preview, Columns: cm.byHeader})

		log.Info().
			Str("file", header.Filename).
			Int("rows", len(rows)).
			Int("groups", preview.Result.Stats.GroupCount).
			Int("standalone", preview.Result.Stats.StandaloneCount).
			Dur("elapsed", time.Since(start)).
			Msg("detect done")
	}
}

type suffixRequest struct {
	Suffix         string   `json:"suffix"`
	AttributeNames []string `json:"attributeNames"`
}

type suffixResponse struct {
	Attributes  map[string]string `json:"attributes"`
	VariantName string            `json:"variantName"`
}

func Suffix(det *service.Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req suffixRequest
		if !decode(w, r, &req) {
			return
		}
		attrs := det.ParseVariantSuffix(req.Suffix, req.AttributeNames...)
		writeJSON(w, r, http.StatusOK, suffixResponse{Attributes: attrs, VariantName: service.BuildVariantName(attrs)})
	}
}

type categoryRequest struct {
	Headers []string `json:"headers"`
}

func Category() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if !decode(w, r, &req) {
			return
		}
		var out struct {
			Category *string `json:"category"`
		}
		if c, ok := service.DetectCategoryFromHeaders(req.Headers); ok {
			out.Category = &c
		}
		writeJSON(w, r, http.StatusOK, out)
	}
}

type baseRequest struct {
	SKUs []string `json:"skus"`
}

type baseResult struct {
	SKU    string `json:"sku"`
	Base   string `json:"base"`
	Suffix string `json:"suffix"`
	Rule   string `json:"rule"`
}

// Base explains how each SKU is split into base part number and suffix.
func Base(det *service.Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req baseRequest
		if !decode(w, r, &req) {
			return
		}
		out := make([]baseResult, 0, len(req.SKUs))
		for _, sku := range req.SKUs {
			base := det.ExtractBasePartNumber(sku)
			out = append(out, baseResult{
				SKU:    sku,
				Base:   base,
				Suffix: service.ExtractVariantValue(sku, base),
				Rule:   det.MatchedRule(sku),
			})
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"results": out})
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, r, status, "bad json: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("write json")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	zerolog.Ctx(r.Context()).Warn().Int("status", status).Str("error", msg).Msg("request rejected")
	body := map[string]string{"error": msg}
	if rid := middleware.GetRequestID(r); rid != "" {
		body["rid"] = rid
	}
	writeJSON(w, r, status, body)
}

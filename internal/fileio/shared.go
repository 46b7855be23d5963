package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Record is one data line of a sheet keyed by header.
type Record struct {
	Line  int               // 1-based line in the source sheet
	Cells map[string]string // header -> cell
}

// Sheet is the first worksheet (or the whole CSV) after header detection.
type Sheet struct {
	Headers []string
	Records []Record
}

// ReadSheet picks a reader by file extension. headerRow is 1-based.
func ReadSheet(r io.Reader, filename string, headerRow int) (Sheet, error) {
	if headerRow < 1 {
		headerRow = 1
	}
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(r)
	case ".xls":
		rows, err = readXLS(r, headerRow)
	case ".csv", ".txt":
		rows, err = readCSV(r)
	default:
		return Sheet{}, fmt.Errorf("unsupported file: %s", filename)
	}
	if err != nil {
		return Sheet{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if len(rows) == 0 {
		return Sheet{}, nil
	}
	h := pickHeader(rows, headerRow)
	return Sheet{Headers: h, Records: toRecords(rows, h, headerRow)}, nil
}

// pickHeader takes the header line, names blank cells "Column N" and
// disambiguates repeated headers as "Size (2)".
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, v := range h {
		v = strings.TrimSpace(strings.TrimPrefix(v, "\ufeff"))
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		seen[v]++
		if n := seen[v]; n > 1 {
			v = fmt.Sprintf("%s (%d)", v, n)
		}
		out[i] = v
	}
	return out
}

// toRecords maps lines below the header onto it, skipping blank lines.
func toRecords(rows [][]string, headers []string, headerRow int) []Record {
	var out []Record
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c, name := range headers {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			m[name] = v
		}
		if !empty {
			out = append(out, Record{Line: r + 1, Cells: m})
		}
	}
	return out
}

// Package export renders tables as spreadsheet or CSV downloads.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ougirez/xformreports/internal/pkg/metrics"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

const (
	DefaultMaxSheetRows = 65536
	DefaultOutputName   = "excel_report"

	MimeTypeCSV  = "text/csv"
	MimeTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SheetWriter writes a table as a spreadsheet, the first row being the header.
type SheetWriter interface {
	WriteSheet(w io.Writer, table [][]Cell) error
	Extension() string
	MimeType() string
}

type Options struct {
	// OutputName is the file name without extension. Directories in it are
	// dropped.
	OutputName string
	// WriteToFile also saves the rendered file as <Dir>/<OutputName>.<ext>.
	WriteToFile bool
	Dir         string
	ForceCSV    bool
	// Encoding names the CSV charset, e.g. "utf-8" or "latin1".
	Encoding string
}

type Result struct {
	Body      []byte
	MimeType  string
	Extension string
	Filename  string
}

// ContentDisposition is the attachment header value for the result.
func (r *Result) ContentDisposition() string {
	return fmt.Sprintf(`attachment; filename="%s"`, r.Filename)
}

type Exporter struct {
	// Sheets is nil when no spreadsheet writer is available; every table is
	// then rendered as CSV.
	Sheets       SheetWriter
	MaxSheetRows int
}

func NewExporter(sheets SheetWriter, maxSheetRows int) *Exporter {
	if maxSheetRows <= 0 {
		maxSheetRows = DefaultMaxSheetRows
	}
	return &Exporter{Sheets: sheets, MaxSheetRows: maxSheetRows}
}

// Render writes in as a spreadsheet when it fits in MaxSheetRows, CSV was
// not forced and a sheet writer is available, and as CSV otherwise.
func (e *Exporter) Render(in Input, opts Options) (*Result, error) {
	table := in.table()

	name := outputName(opts.OutputName)

	var (
		buf bytes.Buffer
		res Result
	)

	if len(table) <= e.MaxSheetRows && !opts.ForceCSV && e.Sheets != nil {
		if err := e.Sheets.WriteSheet(&buf, table); err != nil {
			return nil, fmt.Errorf("WriteSheet: %w", err)
		}
		res.MimeType = e.Sheets.MimeType()
		res.Extension = e.Sheets.Extension()
	} else {
		enc, err := lookupEncoding(opts.Encoding)
		if err != nil {
			return nil, err
		}
		var raw bytes.Buffer
		if err := writeCSV(&raw, table); err != nil {
			return nil, fmt.Errorf("writeCSV: %w", err)
		}
		encoded, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes(raw.Bytes())
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", opts.Encoding, err)
		}
		buf.Write(encoded)
		res.MimeType = MimeTypeCSV
		res.Extension = "csv"
	}

	res.Body = buf.Bytes()
	res.Filename = fmt.Sprintf("%s.%s", escapeQuotes(name), res.Extension)

	if opts.WriteToFile {
		path := filepath.Join(opts.Dir, name+"."+res.Extension)
		if err := os.WriteFile(path, res.Body, 0o644); err != nil {
			return nil, fmt.Errorf("os.WriteFile: %w", err)
		}
	}

	metrics.ExportsTotal.WithLabelValues(res.Extension).Inc()

	return &res, nil
}

func outputName(name string) string {
	name = filepath.Base(filepath.Clean(name))
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return DefaultOutputName
	}
	return name
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// writeCSV quotes every field and doubles embedded quotes. Every row ends
// with a newline.
func writeCSV(w io.Writer, table [][]Cell) error {
	var sb strings.Builder
	for _, row := range table {
		sb.Reset()
		for i, v := range row {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('"')
			sb.WriteString(escapeQuotes(cellString(v)))
			sb.WriteByte('"')
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

func cellString(v Cell) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case Date:
		return t.Format(time.DateOnly)
	case time.Time:
		return t.Format(time.DateTime)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

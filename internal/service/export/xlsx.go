package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet 1"

var (
	formatDateTime = "yyyy-mm-dd hh:mm:ss"
	formatDate     = "yyyy-mm-dd"
	formatTime     = "hh:mm:ss"
)

// XLSXWriter writes Office Open XML workbooks with a bold, grey header row
// and dedicated formats for dates and times.
type XLSXWriter struct{}

func (XLSXWriter) Extension() string { return "xlsx" }
func (XLSXWriter) MimeType() string  { return MimeTypeXLSX }

type sheetStyles struct {
	header, body, dateTime, date, clock int
}

func (XLSXWriter) WriteSheet(w io.Writer, table [][]Cell) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("SetSheetName: %w", err)
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return err
	}

	for rowIdx, row := range table {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return err
			}

			style := styles.body
			switch v := value.(type) {
			case time.Time:
				style = styles.dateTime
			case Date:
				style = styles.date
				value = v.Time
			case TimeOfDay:
				style = styles.clock
				value = v.fraction()
			case decimal.Decimal:
				value = v.InexactFloat64()
			default:
				if rowIdx == 0 {
					style = styles.header
				}
			}

			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("SetCellValue %s: %w", cell, err)
			}
			if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
				return fmt.Errorf("SetCellStyle %s: %w", cell, err)
			}
		}
	}

	return f.Write(w)
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var (
		s   sheetStyles
		err error
	)

	bodyFont := &excelize.Font{Family: "Calibri"}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Family: "Calibri", Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C0C0C0"}},
	}); err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	if s.body, err = f.NewStyle(&excelize.Style{Font: bodyFont}); err != nil {
		return s, fmt.Errorf("body style: %w", err)
	}
	if s.dateTime, err = f.NewStyle(&excelize.Style{Font: bodyFont, CustomNumFmt: &formatDateTime}); err != nil {
		return s, fmt.Errorf("datetime style: %w", err)
	}
	if s.date, err = f.NewStyle(&excelize.Style{Font: bodyFont, CustomNumFmt: &formatDate}); err != nil {
		return s, fmt.Errorf("date style: %w", err)
	}
	if s.clock, err = f.NewStyle(&excelize.Style{Font: bodyFont, CustomNumFmt: &formatTime}); err != nil {
		return s, fmt.Errorf("time style: %w", err)
	}

	return s, nil
}

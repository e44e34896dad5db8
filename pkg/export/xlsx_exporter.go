package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet pairs a worksheet name with its tabular content.
type Sheet struct {
	Name    string
	Dataset Dataset
}

// XLSXExporter renders datasets into an Excel workbook, one sheet per dataset.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces a workbook with the provided sheets in order.
func (e *XLSXExporter) Render(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one sheet")
	}
	file := excelize.NewFile()
	defer file.Close() //nolint:errcheck

	for i, sheet := range sheets {
		if len(sheet.Dataset.Headers) == 0 {
			return nil, fmt.Errorf("sheet %q requires at least one header", sheet.Name)
		}
		if i == 0 {
			if err := file.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := file.NewSheet(sheet.Name); err != nil {
				return nil, fmt.Errorf("add sheet %q: %w", sheet.Name, err)
			}
		}
		if err := writeSheet(file, sheet); err != nil {
			return nil, err
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(file *excelize.File, sheet Sheet) error {
	for col, header := range sheet.Dataset.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := file.SetCellValue(sheet.Name, cell, header); err != nil {
			return fmt.Errorf("write header %q: %w", header, err)
		}
	}
	for rowIdx, row := range sheet.Dataset.Rows {
		for col, header := range sheet.Dataset.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := file.SetCellValue(sheet.Name, cell, row[header]); err != nil {
				return fmt.Errorf("write row %d: %w", rowIdx+1, err)
			}
		}
	}
	return nil
}

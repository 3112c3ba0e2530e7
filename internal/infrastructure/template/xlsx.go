package template

import (
	"bytes"
	"fmt"

	"scan_report_srv/internal/usecase/repository"

	"github.com/xuri/excelize/v2"
)

// SheetName имя листа с выгрузкой отчетов.
const SheetName = "Reports"

// XLSXExporter реализует Exporter для книг Excel.
type XLSXExporter struct{}

// NewXLSX возвращает экспортер XLSX.
func NewXLSX() XLSXExporter { return XLSXExporter{} }

// Export записывает заголовок из имен колонок и строки результата на один лист.
func (XLSXExporter) Export(rs repository.ResultSet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("ошибка переименования листа: %w", err)
	}

	// Стиль для заголовков
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания стиля заголовка: %w", err)
	}

	for i, col := range rs.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, col); err != nil {
			return nil, err
		}
		f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	for rowIndex, row := range rs.Rows {
		for colIndex, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if len(rs.Columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(rs.Columns))
		f.SetColWidth(SheetName, "A", last, 20)
	}

	var buffer bytes.Buffer
	if err := f.Write(&buffer); err != nil {
		return nil, fmt.Errorf("ошибка генерации Excel файла: %w", err)
	}
	return buffer.Bytes(), nil
}

// ContentType возвращает MIME тип для Excel файлов
func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileExtension возвращает расширение файла
func (XLSXExporter) FileExtension() string { return ".xlsx" }

// Package export は応募トラッカーのExcelエクスポートを提供する。
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hitoshi/careernest/internal/model"
)

const sheetName = "Applications"

// WriteApplicationsXLSX は応募一覧をxlsxワークブックとして書き出す。
// ダッシュボードの応募トラッカーのダウンロードに使用する。
func WriteApplicationsXLSX(w io.Writer, apps []*model.JobApplication) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "E", 15)
	f.SetColWidth(sheetName, "F", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 40)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{"Job Title", "Company", "Location", "Salary", "Status", "Stage", "Applied At"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "G1", headerStyle); err != nil {
		return err
	}

	for rowIdx, app := range apps {
		row := rowIdx + 2
		values := []any{
			app.JobTitle,
			app.Company,
			app.Location,
			app.Salary,
			app.Status,
			string(model.StageForStatus(app.Status)),
			app.AppliedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

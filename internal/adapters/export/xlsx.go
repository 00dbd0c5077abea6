package export

import (
	"fmt"
	"io"
	"time"

	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/xuri/excelize/v2"
)

// SheetName は出力するワークシート名です。
const SheetName = "Employees"

// Headers は見出し行です。アバター画像は出力しません。
var Headers = []string{
	"Employee ID", "Full name", "Date of birth", "Gender", "Phone", "Email", "Address",
	"Department", "Designation", "Join date", "Location", "Salary", "Created",
}

// WriteXLSX は社員一覧を xlsx 形式で w へ書き出します。
func WriteXLSX(w io.Writer, records []employee.Record) error {
	f, err := build(records)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// SaveXLSX は社員一覧を path へ保存します。
func SaveXLSX(path string, records []employee.Record) error {
	f, err := build(records)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx %s: %w", path, err)
	}
	return nil
}

func build(records []employee.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		row := []any{
			rec.EmployeeID, rec.FullName, rec.DOB, rec.Gender, rec.Phone, rec.Email, rec.Address,
			rec.Department, rec.Designation, rec.JoinDate, rec.Location, rec.Salary, formatCreated(rec.CreatedAt),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(Headers))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", style); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

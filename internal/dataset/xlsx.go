package dataset

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mailbox-locator/internal/index"
	"github.com/xuri/excelize/v2"
)

// SheetName tên sheet khi xuất XLSX
const SheetName = "records"

// preferredColumns thứ tự cột ưu tiên khi xuất
var preferredColumns = []string{
	"id", "row_id", "箱號_int", "display", "road", "section", "lane", "alley",
	"no", "floor", "備註", "borrower", "地址", "地址_norm", "issues",
}

// ReadXLSX đọc sheet đầu tiên, dòng đầu là tên trường
func ReadXLSX(r io.Reader) ([]index.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("lỗi mở XLSX: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("XLSX không có sheet nào")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc dòng XLSX: %w", err)
	}
	if len(rows) == 0 {
		return []index.RawRecord{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]index.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := index.RawRecord{}
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			if v := strings.TrimSpace(cell); v != "" {
				rec[headers[i]] = v
			}
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records, nil
}

// WriteXLSX ghi record ra XLSX, mỗi trường một cột
func WriteXLSX(w io.Writer, records []index.RawRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("lỗi đổi tên sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("lỗi tạo style header: %w", err)
	}

	columns := Columns(records)
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetName, cell, col)
		f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	for rowIdx, rec := range records {
		for colIdx, col := range columns {
			v, ok := rec[col]
			if !ok || v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(SheetName, cell, index.Stringify(v))
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("lỗi ghi XLSX: %w", err)
	}
	return nil
}

// Columns các cột ưu tiên có mặt trước, cột còn lại theo thứ tự chữ cái
func Columns(records []index.RawRecord) []string {
	present := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			present[k] = struct{}{}
		}
	}

	columns := make([]string, 0, len(present))
	for _, col := range preferredColumns {
		if _, ok := present[col]; ok {
			columns = append(columns, col)
			delete(present, col)
		}
	}

	rest := make([]string, 0, len(present))
	for k := range present {
		rest = append(rest, k)
	}
	sort.Strings(rest)

	return append(columns, rest...)
}

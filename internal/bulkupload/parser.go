package bulkupload

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

// Workbook layout: the first sheet starts with a header row of
// "Item Name | Barcode | Category" followed by one column per store, named
// exactly after the store. Every following row is one item with its prices.
const (
	headerItemName = "item name"
	headerBarcode  = "barcode"
	headerCategory = "category"

	fixedColumns = 3
)

// ParsedRow is one data row of the upload workbook. PriceCells holds the raw
// cell text per store column; empty cells are omitted.
type ParsedRow struct {
	RowNumber  int
	ItemName   string
	Barcode    string
	Category   string
	PriceCells map[string]string
}

// ParseResult is the decoded workbook: the store columns found in the header
// and every data row.
type ParseResult struct {
	StoreColumns []string
	Rows         []ParsedRow
}

// ParseWorkbook reads the first sheet of an xlsx stream. maxRows caps data
// rows; zero means no cap.
func ParseWorkbook(r io.Reader, maxRows int) (*ParseResult, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "file is not a valid xlsx workbook")
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "workbook has no sheets")
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, err, "failed to read workbook rows")
	}
	if len(rows) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "workbook is empty")
	}

	storeColumns, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	dataRows := rows[1:]
	if maxRows > 0 && len(dataRows) > maxRows {
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("workbook exceeds the maximum of %d rows", maxRows))
	}

	result := &ParseResult{StoreColumns: storeColumns}
	for i, cells := range dataRows {
		row := ParsedRow{
			// 1-based, counting the header
			RowNumber:  i + 2,
			PriceCells: make(map[string]string),
		}
		if len(cells) > 0 {
			row.ItemName = strings.TrimSpace(cells[0])
		}
		if len(cells) > 1 {
			row.Barcode = strings.TrimSpace(cells[1])
		}
		if len(cells) > 2 {
			row.Category = strings.TrimSpace(cells[2])
		}
		for j, store := range storeColumns {
			idx := fixedColumns + j
			if idx >= len(cells) {
				continue
			}
			if value := strings.TrimSpace(cells[idx]); value != "" {
				row.PriceCells[store] = value
			}
		}

		if row.ItemName == "" && row.Barcode == "" && len(row.PriceCells) == 0 {
			// skip fully blank rows
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

func parseHeader(header []string) ([]string, error) {
	if len(header) < fixedColumns {
		return nil, apperrors.New(apperrors.CodeValidation,
			"header must start with Item Name, Barcode, Category")
	}
	if !headerMatches(header[0], headerItemName) ||
		!headerMatches(header[1], headerBarcode) ||
		!headerMatches(header[2], headerCategory) {
		return nil, apperrors.New(apperrors.CodeValidation,
			"header must start with Item Name, Barcode, Category")
	}

	var stores []string
	for _, cell := range header[fixedColumns:] {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		stores = append(stores, name)
	}
	if len(stores) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "header has no store columns")
	}
	return stores, nil
}

func headerMatches(cell, want string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), want)
}

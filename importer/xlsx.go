package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// GridFromXLSX reads the first sheet of an XLSX workbook into a cell grid
// so spreadsheet uploads flow through the same pipeline as CSV text.
func GridFromXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return rows, nil
}

package importer

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("Failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("Failed to set sheet row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to serialize workbook: %v", err)
	}
	return buf
}

func TestGridFromXLSX(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Nº CONTRATO UENP", "OBJETO", "CONTRATADA"},
		{"001/2024", "Contrato A", "Empresa A"},
	})

	grid, err := GridFromXLSX(buf)
	if err != nil {
		t.Fatalf("Expected workbook to parse, got: %v", err)
	}
	if len(grid) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(grid))
	}
	if grid[0][0] != "Nº CONTRATO UENP" || grid[1][2] != "Empresa A" {
		t.Errorf("Unexpected grid content: %v", grid)
	}
}

func TestGridFromXLSXInvalidData(t *testing.T) {
	if _, err := GridFromXLSX(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Error("Expected error for invalid workbook bytes")
	}
}

func TestImportGridFromWorkbook(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Nº CONTRATO UENP", "OBJETO", "CONTRATADA", "INÍCIO DA VIGÊNCIA", "FIM DA VIGÊNCIA"},
		{"020/2024", "Contrato em planilha", "Empresa P", "01/05/2024", "30/04/2025"},
	})

	grid, err := GridFromXLSX(buf)
	if err != nil {
		t.Fatalf("Expected workbook to parse, got: %v", err)
	}

	store := &memStore{}
	report := New(store).ImportGrid(context.Background(), grid)

	if !report.Success {
		t.Fatalf("Expected success, got: %s", report.Message)
	}
	c := store.records["020/2024"]
	if c == nil {
		t.Fatal("Expected contract 020/2024 to be persisted")
	}
	if c.PrazoMeses != 11 {
		t.Errorf("Expected prazo_meses 11, got %d", c.PrazoMeses)
	}
}

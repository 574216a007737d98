package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/divisaodecontratos2-code/v0-contratos-uenp/model"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/pkg/logger"
)

// ContractStore is the persistence boundary: a single atomic batch upsert
// keyed on numero_contrato. A failure aborts the whole import.
type ContractStore interface {
	UpsertBatch(ctx context.Context, contratos []*model.Contrato) error
}

// Report is the structured result returned to every caller. Errors mixes
// per-row validation messages with a trailing summary line for duplicate
// contract numbers overwritten within the batch.
type Report struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Imported int      `json:"imported,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Importer drives the full pipeline: decode, resolve headers, map rows,
// deduplicate by contract number, persist, report. One invocation owns all
// of its state; nothing is shared across imports.
type Importer struct {
	store ContractStore
}

func New(store ContractStore) *Importer {
	return &Importer{store: store}
}

// Import ingests raw spreadsheet text. All three entry points (pasted
// text, uploaded file, fetched URL) converge here.
func (im *Importer) Import(ctx context.Context, rawText string) *Report {
	cleaned := strings.TrimSpace(strings.TrimPrefix(rawText, "\uFEFF"))
	if cleaned == "" {
		return &Report{Success: false, Message: "CSV vazio ou inválido"}
	}

	return im.ImportGrid(ctx, Decode(cleaned))
}

// ImportGrid runs the pipeline on an already-tokenized grid. The XLSX path
// enters here directly.
func (im *Importer) ImportGrid(ctx context.Context, grid [][]string) *Report {
	rows := dropBlankRows(grid)
	if len(rows) == 0 {
		return &Report{Success: false, Message: "CSV vazio ou inválido"}
	}

	headerDetected := IsLikelyHeader(rows[0])
	if headerDetected && len(rows) < 2 {
		return &Report{Success: false, Message: "Nenhum dado encontrado após o cabeçalho do CSV"}
	}

	headers := rows[0]
	dataStart := 1
	if !headerDetected {
		headers = FallbackHeaders(len(rows[0]))
		dataStart = 0
	}

	lookup := BuildHeaderLookup(headers)

	contratos := make(map[string]*model.Contrato)
	var order []string
	var duplicates []string
	var rowErrors []string

	for i := dataStart; i < len(rows); i++ {
		values := padRow(rows[i], len(headers))

		if allEmpty(values) {
			continue
		}

		rowNumber := i + 1

		contrato, err := MapRow(values, lookup, rowNumber)
		if err != nil {
			rowErrors = append(rowErrors, err.Error())
			continue
		}

		if _, seen := contratos[contrato.NumeroContrato]; seen {
			duplicates = append(duplicates, contrato.NumeroContrato)
		} else {
			order = append(order, contrato.NumeroContrato)
		}
		contratos[contrato.NumeroContrato] = contrato
	}

	if len(contratos) == 0 {
		return &Report{
			Success: false,
			Message: "Nenhum contrato válido encontrado. Erros: " + strings.Join(rowErrors, "; "),
		}
	}

	batch := make([]*model.Contrato, 0, len(order))
	for _, numero := range order {
		batch = append(batch, contratos[numero])
	}

	if err := im.store.UpsertBatch(ctx, batch); err != nil {
		logger.Error(ctx, "contract batch upsert failed", "error", err, "records", len(batch))
		return &Report{
			Success: false,
			Message: "Erro ao inserir contratos no banco de dados: " + err.Error(),
		}
	}

	logger.Info(ctx, "contract import finished",
		"imported", len(batch),
		"row_errors", len(rowErrors),
		"duplicates", len(duplicates),
	)

	report := &Report{
		Success:  true,
		Message:  fmt.Sprintf("%d contrato(s) importado(s) com sucesso!", len(batch)),
		Imported: len(batch),
	}
	if len(rowErrors) > 0 || len(duplicates) > 0 {
		report.Errors = rowErrors
		if len(duplicates) > 0 {
			report.Errors = append(report.Errors, "Contratos duplicados atualizados: "+strings.Join(duplicates, ", "))
		}
	}
	return report
}

// padRow trims every cell and pads the row to the header width so ragged
// rows read missing cells as empty strings.
func padRow(row []string, width int) []string {
	values := make([]string, width)
	for i := 0; i < width; i++ {
		if i < len(row) {
			values[i] = strings.TrimSpace(row[i])
		}
	}
	return values
}

func allEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

func dropBlankRows(grid [][]string) [][]string {
	rows := make([][]string, 0, len(grid))
	for _, row := range grid {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}

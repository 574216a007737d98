package importer

import (
	"strings"
	"testing"

	"github.com/divisaodecontratos2-code/v0-contratos-uenp/model"
)

// mapTestRow builds the padded value slice and lookup the orchestrator
// would hand to MapRow.
func mapTestRow(headers []string, cells []string) ([]string, HeaderLookup) {
	return padRow(cells, len(headers)), BuildHeaderLookup(headers)
}

func TestMapRowComplete(t *testing.T) {
	values, lookup := mapTestRow(DefaultHeaderOrder, []string{
		"SERVIÇOS", "1", "001/2023", "PREGÃO ELETRÔNICO", "001/2023",
		"Contratação de serviços de limpeza", "EMPRESA LIMPEZA LTDA", "R$ 150.000,00",
		"01/01/2023", "31/12/2023", "VIGENTE", "010/2023",
		"João Silva", "joao.silva@uenp.edu.br / (43) 99999-0001", "Portaria 001/2023",
		"Maria Santos", "maria.santos@uenp.edu.br / (43) 99999-0002", "Portaria 002/2023",
		"SIM",
	})

	c, err := MapRow(values, lookup, 2)
	if err != nil {
		t.Fatalf("Expected row to map, got error: %v", err)
	}

	if c.NumeroContrato != "001/2023" {
		t.Errorf("Expected numero_contrato 001/2023, got %s", c.NumeroContrato)
	}
	if c.NumeroProcesso != "010/2023" {
		t.Errorf("Expected numero_processo 010/2023, got %s", c.NumeroProcesso)
	}
	if c.ValorInicial != 150000 || c.ValorAtual != 150000 {
		t.Errorf("Expected valores 150000, got %v / %v", c.ValorInicial, c.ValorAtual)
	}
	if c.DataInicioVigencia != "2023-01-01" || c.DataFimVigencia != "2023-12-31" {
		t.Errorf("Unexpected vigency dates: %s / %s", c.DataInicioVigencia, c.DataFimVigencia)
	}
	if c.DataAssinatura != "2023-01-01" {
		t.Errorf("Expected data_assinatura to default to start date, got %s", c.DataAssinatura)
	}
	if c.PrazoMeses != 11 {
		t.Errorf("Expected prazo_meses 11, got %d", c.PrazoMeses)
	}
	if !c.Prorrogavel {
		t.Error("Expected prorrogavel true")
	}
	if c.Situacao != model.SituacaoVigente {
		t.Errorf("Expected situacao vigente, got %s", c.Situacao)
	}
	if c.GestorNome != "João Silva" || c.GestorEmail != "joao.silva@uenp.edu.br" || c.GestorTelefone != "(43) 99999-0001" {
		t.Errorf("Unexpected gestor data: %s / %s / %s", c.GestorNome, c.GestorEmail, c.GestorTelefone)
	}
	if c.FiscalNome != "Maria Santos" || c.FiscalEmail != "maria.santos@uenp.edu.br" || c.FiscalTelefone != "(43) 99999-0002" {
		t.Errorf("Unexpected fiscal data: %s / %s / %s", c.FiscalNome, c.FiscalEmail, c.FiscalTelefone)
	}
	if c.CnpjCpf != model.NaoInformado {
		t.Errorf("Expected cnpj_cpf sentinel, got %s", c.CnpjCpf)
	}

	for _, fragment := range []string{
		"Categoria: SERVIÇOS",
		"Nº GMS: 1",
		"Modalidade: PREGÃO ELETRÔNICO",
		"Modalidade Nº: 001/2023",
		"Nomeação Gestor: Portaria 001/2023",
		"Nomeação Fiscal: Portaria 002/2023",
	} {
		if !strings.Contains(c.Observacoes, fragment) {
			t.Errorf("Expected observacoes to contain %q, got %q", fragment, c.Observacoes)
		}
	}
}

func TestMapRowMissingRequired(t *testing.T) {
	headers := []string{"Nº CONTRATO UENP", "OBJETO", "CONTRATADA", "INÍCIO DA VIGÊNCIA", "FIM DA VIGÊNCIA"}

	tests := []struct {
		name  string
		cells []string
	}{
		{"missing numero", []string{"", "Objeto X", "Empresa", "01/01/2023", "31/12/2023"}},
		{"missing objeto", []string{"001/2023", "", "Empresa", "01/01/2023", "31/12/2023"}},
		{"missing contratada", []string{"001/2023", "Objeto X", "", "01/01/2023", "31/12/2023"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, lookup := mapTestRow(headers, tt.cells)
			_, err := MapRow(values, lookup, 7)
			if err == nil {
				t.Fatal("Expected error for missing required field")
			}
			if !strings.Contains(err.Error(), "Linha 7") {
				t.Errorf("Expected error to cite row 7, got %q", err.Error())
			}
			if !strings.Contains(err.Error(), "Campos obrigatórios faltando") {
				t.Errorf("Unexpected error message: %q", err.Error())
			}
		})
	}
}

func TestMapRowInvalidDates(t *testing.T) {
	headers := []string{"Nº CONTRATO UENP", "OBJETO", "CONTRATADA", "INÍCIO DA VIGÊNCIA", "FIM DA VIGÊNCIA"}
	values, lookup := mapTestRow(headers, []string{"001/2023", "Objeto X", "Empresa", "01-01-2023", "31/12/2023"})

	_, err := MapRow(values, lookup, 3)
	if err == nil {
		t.Fatal("Expected error for invalid date")
	}
	if !strings.Contains(err.Error(), "Linha 3: Datas inválidas") {
		t.Errorf("Unexpected error message: %q", err.Error())
	}
}

func TestMapRowDefaults(t *testing.T) {
	headers := []string{"Nº CONTRATO UENP", "OBJETO", "CONTRATADA", "INÍCIO DA VIGÊNCIA", "FIM DA VIGÊNCIA"}
	values, lookup := mapTestRow(headers, []string{"001/2023", "Objeto X", "Empresa", "01/01/2023", "31/12/2023"})

	c, err := MapRow(values, lookup, 2)
	if err != nil {
		t.Fatalf("Expected row to map, got error: %v", err)
	}

	if c.Situacao != model.SituacaoVigente {
		t.Errorf("Expected default situacao vigente, got %s", c.Situacao)
	}
	if c.Prorrogavel {
		t.Error("Expected default prorrogavel false")
	}
	if c.ValorInicial != 0 {
		t.Errorf("Expected default valor 0, got %v", c.ValorInicial)
	}
	if c.GestorNome != model.NaoInformado || c.FiscalNome != model.NaoInformado {
		t.Errorf("Expected name sentinels, got %s / %s", c.GestorNome, c.FiscalNome)
	}
	if c.GestorEmail != "" || c.GestorTelefone != "" {
		t.Errorf("Expected empty contact data, got %s / %s", c.GestorEmail, c.GestorTelefone)
	}
	if c.Observacoes != "" {
		t.Errorf("Expected empty observacoes, got %q", c.Observacoes)
	}
}

func TestMapRowRepeatedContatoColumns(t *testing.T) {
	// Some exports label both contact columns literally CONTATO; the first
	// belongs to the gestor, the second to the fiscal.
	headers := []string{
		"Nº CONTRATO UENP", "OBJETO", "CONTRATADA", "INÍCIO DA VIGÊNCIA", "FIM DA VIGÊNCIA",
		"GESTOR DO CONTRATO", "CONTATO", "FISCAL DO CONTRATO", "CONTATO",
	}
	values, lookup := mapTestRow(headers, []string{
		"001/2023", "Objeto X", "Empresa", "01/01/2023", "31/12/2023",
		"João", "joao@uenp.edu.br", "Maria", "maria@uenp.edu.br",
	})

	c, err := MapRow(values, lookup, 2)
	if err != nil {
		t.Fatalf("Expected row to map, got error: %v", err)
	}

	if c.GestorEmail != "joao@uenp.edu.br" {
		t.Errorf("Expected first CONTATO for gestor, got %q", c.GestorEmail)
	}
	if c.FiscalEmail != "maria@uenp.edu.br" {
		t.Errorf("Expected second CONTATO for fiscal, got %q", c.FiscalEmail)
	}
}

func TestMapRowSingleContatoColumn(t *testing.T) {
	// With only one CONTATO column the occurrence index clamps and both
	// roles read the same cell. Known limitation of positional matching.
	headers := []string{"Nº CONTRATO UENP", "OBJETO", "CONTRATADA", "INÍCIO DA VIGÊNCIA", "FIM DA VIGÊNCIA", "CONTATO"}
	values, lookup := mapTestRow(headers, []string{
		"001/2023", "Objeto X", "Empresa", "01/01/2023", "31/12/2023", "contato@uenp.edu.br",
	})

	c, err := MapRow(values, lookup, 2)
	if err != nil {
		t.Fatalf("Expected row to map, got error: %v", err)
	}
	if c.GestorEmail != "contato@uenp.edu.br" || c.FiscalEmail != "contato@uenp.edu.br" {
		t.Errorf("Expected clamped occurrence for both roles, got %q / %q", c.GestorEmail, c.FiscalEmail)
	}
}

func TestMapRowHeaderSynonyms(t *testing.T) {
	// Every historical synonym resolves to the same canonical field.
	synonymSets := []struct {
		field    string
		synonyms []string
		cell     string
		check    func(c *model.Contrato) string
	}{
		{"numero_contrato", numeroContratoHeaders, "009/2024", func(c *model.Contrato) string { return c.NumeroContrato }},
		{"objeto", objetoHeaders, "Objeto do contrato", func(c *model.Contrato) string { return c.Objeto }},
		{"contratado", contratadaHeaders, "Empresa Z", func(c *model.Contrato) string { return c.Contratado }},
		{"numero_processo", processoHeaders, "555/2024", func(c *model.Contrato) string { return c.NumeroProcesso }},
		{"gestor_nome", gestorHeaders, "Gestor A", func(c *model.Contrato) string { return c.GestorNome }},
		{"fiscal_nome", fiscalHeaders, "Fiscal B", func(c *model.Contrato) string { return c.FiscalNome }},
	}

	base := map[string]string{
		"Nº CONTRATO UENP":   "009/2024",
		"OBJETO":             "Objeto do contrato",
		"CONTRATADA":         "Empresa Z",
		"INÍCIO DA VIGÊNCIA": "01/01/2024",
		"FIM DA VIGÊNCIA":    "31/12/2024",
	}

	for _, set := range synonymSets {
		for _, synonym := range set.synonyms {
			headers := []string{synonym, "INÍCIO DA VIGÊNCIA", "FIM DA VIGÊNCIA", "Nº CONTRATO UENP", "OBJETO", "CONTRATADA"}
			cells := []string{set.cell, base["INÍCIO DA VIGÊNCIA"], base["FIM DA VIGÊNCIA"], base["Nº CONTRATO UENP"], base["OBJETO"], base["CONTRATADA"]}

			values, lookup := mapTestRow(headers, cells)
			c, err := MapRow(values, lookup, 2)
			if err != nil {
				t.Fatalf("Synonym %q: unexpected error: %v", synonym, err)
			}
			if got := set.check(c); got != set.cell {
				t.Errorf("Synonym %q for %s: expected %q, got %q", synonym, set.field, set.cell, got)
			}
		}
	}
}

func TestMapRowLowercaseHeaderDocument(t *testing.T) {
	// A document written in the database-export convention
	headers := []string{"numero_contrato", "descricao", "contratado", "data_inicio_vigencia", "data_fim_vigencia", "situacao", "valor_total"}
	values, lookup := mapTestRow(headers, []string{"077/2022", "Manutenção predial", "Empresa Y", "01/06/2022", "31/05/2024", "encerrado", "R$ 42.000,00"})

	c, err := MapRow(values, lookup, 2)
	if err != nil {
		t.Fatalf("Expected row to map, got error: %v", err)
	}
	if c.NumeroContrato != "077/2022" || c.Objeto != "Manutenção predial" || c.Contratado != "Empresa Y" {
		t.Errorf("Unexpected mapping: %+v", c)
	}
	if c.Situacao != model.SituacaoEncerrado {
		t.Errorf("Expected situacao encerrado, got %s", c.Situacao)
	}
	if c.ValorInicial != 42000 {
		t.Errorf("Expected valor 42000, got %v", c.ValorInicial)
	}
	if c.PrazoMeses != 23 {
		t.Errorf("Expected prazo_meses 23, got %d", c.PrazoMeses)
	}
}

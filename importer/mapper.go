package importer

import (
	"fmt"
	"strings"

	"github.com/divisaodecontratos2-code/v0-contratos-uenp/model"
)

// Synonym lists per logical field, in priority order. Each entry is a
// header label seen in at least one historical export; the first one that
// resolves to a non-empty cell wins.
var (
	numeroContratoHeaders = []string{
		"Nº CONTRATO UENP",
		"NUMERO CONTRATO UENP",
		"NUMERO_CONTRATO",
		"numero_contrato",
		"Número do contrato",
		"numero contrato",
	}
	objetoHeaders     = []string{"OBJETO", "Objeto", "DESCRIÇÃO", "descricao", "descrição"}
	contratadaHeaders = []string{"CONTRATADA", "CONTRATADO", "contratado", "Fornecedor", "EMPRESA"}
	valorHeaders      = []string{"VALOR", "VALOR TOTAL", "valor", "valor_total", "valor total"}
	inicioHeaders     = []string{
		"INÍCIO DA VIGÊNCIA",
		"INICIO DA VIGENCIA",
		"inicio_vigencia",
		"data_inicio_vigencia",
		"DATA INICIO",
		"DATA INICIO VIGENCIA",
	}
	fimHeaders = []string{
		"FIM DA VIGÊNCIA",
		"FIM DA VIGENCIA",
		"fim_vigencia",
		"data_fim_vigencia",
		"DATA FIM",
		"DATA FIM VIGENCIA",
	}
	statusHeaders   = []string{"STATUS", "status", "situação", "situacao", "SITUAÇÃO"}
	processoHeaders = []string{"PROCESSO", "processo", "numero_processo", "Nº PROCESSO", "NUMERO PROCESSO"}
	gestorHeaders   = []string{"GESTOR DO CONTRATO", "GESTOR", "gestor_nome", "Gestor", "Nome do gestor"}
	fiscalHeaders   = []string{"FISCAL DO CONTRATO", "FISCAL", "fiscal_nome", "Fiscal", "Nome do fiscal"}

	contatoGestorHeaders = []string{"CONTATO GESTOR", "CONTATO_GESTOR", "CONTATO (GESTOR)", "GESTOR CONTATO"}
	contatoFiscalHeaders = []string{"CONTATO FISCAL", "CONTATO_FISCAL", "CONTATO (FISCAL)", "FISCAL CONTATO"}
	contatoHeaders       = []string{"CONTATO"}

	prorrogavelHeaders = []string{"PREVISÃO DE PRORROGAÇÃO", "PREVISAO DE PRORROGACAO", "prorrogavel", "PRORROGAVEL"}

	categoriaHeaders        = []string{"CATEGORIA", "categoria"}
	numeroGmsHeaders        = []string{"Nº GMS", "NUMERO GMS", "numero_gms"}
	modalidadeHeaders       = []string{"MODALIDADE", "modalidade"}
	modalidadeNumeroHeaders = []string{"MODALIDADE N°", "MODALIDADE Nº", "MODALIDADE NUMERO", "modalidade_numero"}

	nomeacaoGestorHeaders = []string{"NOMEAÇÃO GESTOR", "NOMEACAO GESTOR", "NOMEAÇÃO (GESTOR)", "NOMEACAO (GESTOR)"}
	nomeacaoFiscalHeaders = []string{"NOMEAÇÃO FISCAL", "NOMEACAO FISCAL", "NOMEAÇÃO (FISCAL)", "NOMEACAO (FISCAL)"}
	nomeacaoHeaders       = []string{"NOMEAÇÃO", "NOMEACAO"}
)

// valueFromRow tries each candidate header (and its lowercase and
// normalized variants) against the lookup, returning the first non-empty
// cell. occurrence picks among columns sharing the same literal header
// (0 = first, 1 = second), clamped to the last available index. This
// positional assumption is the known fragility of duplicate-header
// disambiguation: a document that swaps the GESTOR and FISCAL column
// blocks will misattribute contacts.
func valueFromRow(values []string, lookup HeaderLookup, candidates []string, occurrence int) string {
	for _, candidate := range candidates {
		variants := []string{candidate, strings.ToLower(candidate), NormalizeKey(candidate)}

		for _, variant := range variants {
			indexes := lookup[variant]
			if len(indexes) == 0 {
				continue
			}

			pick := occurrence
			if pick > len(indexes)-1 {
				pick = len(indexes) - 1
			}

			index := indexes[pick]
			if index < len(values) {
				if value := strings.TrimSpace(values[index]); value != "" {
					return value
				}
			}
		}
	}

	return ""
}

// MapRow converts one data row into a Contrato. values must already be
// trimmed and padded to the header width; rowNumber is the 1-based source
// position used in error messages. Failures come back as an error value,
// never a panic: an unexpected panic while mapping is converted into the
// same row-error shape.
func MapRow(values []string, lookup HeaderLookup, rowNumber int) (contrato *model.Contrato, err error) {
	defer func() {
		if r := recover(); r != nil {
			contrato = nil
			err = fmt.Errorf("Linha %d: Erro ao processar - %v", rowNumber, r)
		}
	}()

	numeroContrato := valueFromRow(values, lookup, numeroContratoHeaders, 0)
	objeto := valueFromRow(values, lookup, objetoHeaders, 0)
	contratada := valueFromRow(values, lookup, contratadaHeaders, 0)

	valorStr := valueFromRow(values, lookup, valorHeaders, 0)
	if valorStr == "" {
		valorStr = "0"
	}

	inicioVigencia := valueFromRow(values, lookup, inicioHeaders, 0)
	fimVigencia := valueFromRow(values, lookup, fimHeaders, 0)

	status := valueFromRow(values, lookup, statusHeaders, 0)
	if status == "" {
		status = model.SituacaoVigente
	}

	processo := valueFromRow(values, lookup, processoHeaders, 0)
	gestorNome := valueFromRow(values, lookup, gestorHeaders, 0)
	fiscalNome := valueFromRow(values, lookup, fiscalHeaders, 0)

	// Some exports label both contact columns literally "CONTATO"; the
	// occurrence index assigns the first to the gestor and the second to
	// the fiscal when no distinctly-labeled column exists.
	gestorContato := valueFromRow(values, lookup, contatoGestorHeaders, 0)
	if gestorContato == "" {
		gestorContato = valueFromRow(values, lookup, contatoHeaders, 0)
	}
	fiscalContato := valueFromRow(values, lookup, contatoFiscalHeaders, 0)
	if fiscalContato == "" {
		fiscalContato = valueFromRow(values, lookup, contatoHeaders, 1)
	}

	prorrogavel := valueFromRow(values, lookup, prorrogavelHeaders, 0)
	if prorrogavel == "" {
		prorrogavel = "NÃO"
	}

	categoria := valueFromRow(values, lookup, categoriaHeaders, 0)
	numeroGms := valueFromRow(values, lookup, numeroGmsHeaders, 0)
	modalidade := valueFromRow(values, lookup, modalidadeHeaders, 0)
	modalidadeNumero := valueFromRow(values, lookup, modalidadeNumeroHeaders, 0)

	nomeacaoGestor := valueFromRow(values, lookup, nomeacaoGestorHeaders, 0)
	if nomeacaoGestor == "" {
		nomeacaoGestor = valueFromRow(values, lookup, nomeacaoHeaders, 0)
	}
	nomeacaoFiscal := valueFromRow(values, lookup, nomeacaoFiscalHeaders, 0)
	if nomeacaoFiscal == "" {
		nomeacaoFiscal = valueFromRow(values, lookup, nomeacaoHeaders, 1)
	}

	if numeroContrato == "" || objeto == "" || contratada == "" {
		return nil, fmt.Errorf("Linha %d: Campos obrigatórios faltando (número do contrato, objeto ou contratada)", rowNumber)
	}

	dataInicio := ParseDate(inicioVigencia)
	dataFim := ParseDate(fimVigencia)
	if dataInicio == "" || dataFim == "" {
		return nil, fmt.Errorf("Linha %d: Datas inválidas", rowNumber)
	}

	valor := ParseCurrency(valorStr)

	if gestorNome == "" {
		gestorNome = model.NaoInformado
	}
	if fiscalNome == "" {
		fiscalNome = model.NaoInformado
	}

	observacoes := buildObservacoes([]observacao{
		{"Categoria", categoria},
		{"Nº GMS", numeroGms},
		{"Modalidade", modalidade},
		{"Modalidade Nº", modalidadeNumero},
		{"Nomeação Gestor", nomeacaoGestor},
		{"Nomeação Fiscal", nomeacaoFiscal},
	})

	return &model.Contrato{
		NumeroContrato:     numeroContrato,
		NumeroProcesso:     processo,
		Objeto:             objeto,
		Contratado:         contratada,
		CnpjCpf:            model.NaoInformado,
		ValorInicial:       valor,
		ValorAtual:         valor,
		DataAssinatura:     dataInicio,
		DataInicioVigencia: dataInicio,
		DataFimVigencia:    dataFim,
		PrazoMeses:         MonthsBetween(dataInicio, dataFim),
		Prorrogavel:        ParseProrrogavel(prorrogavel),
		Situacao:           NormalizeStatus(status),
		GestorNome:         gestorNome,
		GestorEmail:        ExtractEmail(gestorContato),
		GestorTelefone:     ExtractPhone(gestorContato),
		FiscalNome:         fiscalNome,
		FiscalEmail:        ExtractEmail(fiscalContato),
		FiscalTelefone:     ExtractPhone(fiscalContato),
		Observacoes:        observacoes,
	}, nil
}

type observacao struct {
	label string
	value string
}

// buildObservacoes concatenates secondary fields not represented by their
// own column into the free-text notes, " | " separated.
func buildObservacoes(items []observacao) string {
	var parts []string
	for _, item := range items {
		if item.value != "" {
			parts = append(parts, item.label+": "+item.value)
		}
	}
	return strings.Join(parts, " | ")
}

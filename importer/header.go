package importer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultHeaderOrder is the canonical column order of the UENP contract
// spreadsheet. It doubles as the synthetic header for headerless exports.
var DefaultHeaderOrder = []string{
	"CATEGORIA",
	"Nº GMS",
	"Nº CONTRATO UENP",
	"MODALIDADE",
	"MODALIDADE Nº",
	"OBJETO",
	"CONTRATADA",
	"VALOR",
	"INÍCIO DA VIGÊNCIA",
	"FIM DA VIGÊNCIA",
	"STATUS",
	"PROCESSO",
	"GESTOR DO CONTRATO",
	"CONTATO (GESTOR)",
	"NOMEAÇÃO (GESTOR)",
	"FISCAL DO CONTRATO",
	"CONTATO (FISCAL)",
	"NOMEAÇÃO (FISCAL)",
	"PREVISÃO DE PRORROGAÇÃO",
}

// headerKeywords is every column label observed across the historical
// spreadsheet variants, pre-normalized. Used only to decide whether a row
// looks like a header.
var headerKeywords = buildKeywordSet(append([]string{
	"NUMERO CONTRATO UENP",
	"numero_contrato",
	"Número do contrato",
	"numero contrato",
	"DESCRIÇÃO",
	"descricao",
	"contratado",
	"Fornecedor",
	"EMPRESA",
	"VALOR TOTAL",
	"valor_total",
	"valor total",
	"INICIO DA VIGENCIA",
	"inicio_vigencia",
	"data_inicio_vigencia",
	"DATA INICIO",
	"DATA INICIO VIGENCIA",
	"FIM DA VIGENCIA",
	"fim_vigencia",
	"data_fim_vigencia",
	"DATA FIM",
	"DATA FIM VIGENCIA",
	"situação",
	"situacao",
	"Nº PROCESSO",
	"NUMERO PROCESSO",
	"gestor_nome",
	"Gestor",
	"Nome do gestor",
	"fiscal_nome",
	"Fiscal",
	"Nome do fiscal",
	"CONTATO GESTOR",
	"CONTATO_GESTOR",
	"GESTOR CONTATO",
	"CONTATO",
	"CONTATO FISCAL",
	"CONTATO_FISCAL",
	"FISCAL CONTATO",
	"PREVISAO DE PRORROGACAO",
	"prorrogavel",
	"PRORROGAVEL",
	"categoria",
	"NUMERO GMS",
	"numero_gms",
	"modalidade",
	"MODALIDADE N°",
	"MODALIDADE NUMERO",
	"modalidade_numero",
	"NOMEAÇÃO GESTOR",
	"NOMEACAO GESTOR",
	"NOMEAÇÃO (GESTOR)",
	"NOMEACAO (GESTOR)",
	"NOMEAÇÃO FISCAL",
	"NOMEACAO FISCAL",
	"NOMEAÇÃO (FISCAL)",
	"NOMEACAO (FISCAL)",
}, DefaultHeaderOrder...))

func buildKeywordSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		set[NormalizeKey(label)] = struct{}{}
	}
	return set
}

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

var ordinalReplacer = strings.NewReplacer("º", "o", "°", "o")

// NormalizeKey reduces a header label to its comparison form: lowercase,
// trimmed, diacritics removed, ordinal symbols mapped to "o", and runs of
// non-alphanumerics collapsed to a single underscore. Every header and
// lookup key comparison in the pipeline goes through this one function.
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	deaccent := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(deaccent, s); err == nil {
		s = folded
	}

	s = ordinalReplacer.Replace(s)
	s = nonAlnumRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// IsLikelyHeader reports whether a row reads as a header: enough of its
// cells normalize to known column labels. The threshold tolerates custom
// extra columns while rejecting data rows that happen to contain one or two
// recognizable words.
func IsLikelyHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}

	matches := 0
	for _, cell := range row {
		if _, ok := headerKeywords[NormalizeKey(cell)]; ok {
			matches++
		}
	}

	threshold := (len(row) + 3) / 4
	if threshold < 2 {
		threshold = 2
	}
	return matches >= threshold
}

// FallbackHeaders synthesizes a header for headerless exports from the
// default column order, padding extra positions with generic names.
func FallbackHeaders(width int) []string {
	headers := make([]string, width)
	for i := range headers {
		if i < len(DefaultHeaderOrder) {
			headers[i] = DefaultHeaderOrder[i]
		} else {
			headers[i] = fmt.Sprintf("COLUNA_%d", i+1)
		}
	}
	return headers
}

// HeaderLookup maps a lookup key to the column indices carrying it, in
// arrival order. Repeated headers (two CONTATO columns) keep all indices so
// occurrence selection can disambiguate.
type HeaderLookup map[string][]int

// BuildHeaderLookup registers three variants per header cell: the trimmed
// original, its lowercase form and its normalized form. A lookup therefore
// succeeds regardless of which naming convention the document used.
func BuildHeaderLookup(headers []string) HeaderLookup {
	lookup := make(HeaderLookup)

	for index, header := range headers {
		trimmed := strings.TrimSpace(header)
		if trimmed == "" {
			continue
		}

		lookup.add(trimmed, index)
		lookup.add(strings.ToLower(trimmed), index)
		lookup.add(NormalizeKey(trimmed), index)
	}

	return lookup
}

func (l HeaderLookup) add(key string, index int) {
	if key == "" {
		return
	}
	for _, existing := range l[key] {
		if existing == index {
			return
		}
	}
	l[key] = append(l[key], index)
}

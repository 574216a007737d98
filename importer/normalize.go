package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/divisaodecontratos2-code/v0-contratos-uenp/model"
)

// Field normalizers are total: unparsable input yields a sentinel (empty
// string, zero, passthrough), never an error. Callers decide whether a
// sentinel is acceptable for the field at hand.

// ParseDate converts a Brazilian DD/MM/YYYY date to ISO YYYY-MM-DD.
// Returns "" when the input does not split into exactly three parts.
func ParseDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return ""
	}

	return fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[1]), pad2(parts[0]))
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// ParseCurrency converts a Brazilian currency string (R$ 1.234,56) to a
// float. Thousands dots are dropped and the decimal comma becomes a point.
// Returns 0 for empty or unparsable input.
func ParseCurrency(s string) float64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}

	cleaned := strings.ReplaceAll(s, "R$", "")
	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cleaned)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// ExtractEmail returns the first email-looking substring of a free-text
// contact cell, or "" when none is present.
func ExtractEmail(contact string) string {
	return emailPattern.FindString(contact)
}

// ExtractPhone strips everything but digits from a contact cell and
// reformats as (DD) XXXXX-XXXX when at least 10 digits remain. Shorter
// inputs pass through trimmed, best effort.
func ExtractPhone(contact string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, contact)

	if len(digits) >= 10 {
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:len(digits)-4], digits[len(digits)-4:])
	}
	return strings.TrimSpace(contact)
}

// NormalizeStatus maps the many spellings of contract status to the fixed
// situacao enum, defaulting to vigente.
func NormalizeStatus(status string) string {
	normalized := strings.ToLower(strings.TrimSpace(status))

	switch {
	case strings.Contains(normalized, "vigente"), strings.Contains(normalized, "ativo"):
		return model.SituacaoVigente
	case strings.Contains(normalized, "encerrado"), strings.Contains(normalized, "finalizado"):
		return model.SituacaoEncerrado
	case strings.Contains(normalized, "suspenso"):
		return model.SituacaoSuspenso
	case strings.Contains(normalized, "rescindido"), strings.Contains(normalized, "cancelado"):
		return model.SituacaoRescindido
	default:
		return model.SituacaoVigente
	}
}

// MonthsBetween returns the calendar-month difference between two ISO
// dates, ignoring day-of-month and clamped at zero. Unparsable dates
// contribute a zero term.
func MonthsBetween(startISO, endISO string) int {
	start, err := time.Parse("2006-01-02", startISO)
	if err != nil {
		return 0
	}
	end, err := time.Parse("2006-01-02", endISO)
	if err != nil {
		return 0
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// ParseProrrogavel reports whether the extensibility cell affirms renewal:
// "SIM" or "true", case-insensitively. Everything else is false.
func ParseProrrogavel(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "SIM") || strings.EqualFold(s, "true")
}

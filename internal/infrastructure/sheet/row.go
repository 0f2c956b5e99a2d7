package sheet

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Row is one parsed spreadsheet line keyed by header name
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the raw value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// GetOrDefault returns the value for a column, or default if absent/empty
func (r *Row) GetOrDefault(header, defaultVal string) string {
	if val, ok := r.Data[header]; ok && val != "" {
		return val
	}
	return defaultVal
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Decimal returns the numeric value of a column. Upstream exports mix
// locales and formats, so the value is normalized first; anything that
// still fails to parse yields zero, per the reader contract: numeric
// fields default to 0, they never fail the row.
func (r *Row) Decimal(header string) decimal.Decimal {
	d, _ := r.DecimalOK(header)
	return d
}

// DecimalOK returns the numeric value of a column and whether a usable
// number was actually present
func (r *Row) DecimalOK(header string) (decimal.Decimal, bool) {
	raw := NormalizeNumeric(r.Get(header))
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NormalizeNumeric strips currency symbols, spaces and percent signs and
// converts comma-decimal notation to dot-decimal. "1.234,56" becomes
// "1234.56" and "7,5" becomes "7.5".
func NormalizeNumeric(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	s = b.String()

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// The rightmost separator is the decimal one; the other marks
		// thousands and is dropped
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	return s
}

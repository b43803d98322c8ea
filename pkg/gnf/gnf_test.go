package gnf

import (
	"strings"
	"testing"
	"unicode"

	"github.com/shopspring/decimal"
)

// digitsOf strips grouping separators so tests do not depend on which space
// character the CLDR data uses for fr-GN.
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		digits string
	}{
		{"whole amount", decimal.NewFromInt(1234500), "1234500"},
		{"zero", decimal.Zero, "0"},
		{"rounds to whole francs", decimal.RequireFromString("999.6"), "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.amount)
			if !strings.HasSuffix(got, " GNF") {
				t.Fatalf("Format(%s) = %q, want GNF suffix", tt.amount, got)
			}
			if digitsOf(got) != tt.digits {
				t.Errorf("Format(%s) = %q, want digits %q", tt.amount, got, tt.digits)
			}
		})
	}
}

package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		extras   []string
		quantity int
		want     string
	}{
		{"base only", "8.00", nil, 1, "8.00"},
		{"one extra doubled", "8.00", []string{"1.50"}, 2, "19.00"},
		{"multiple extras", "10.00", []string{"1.50", "0.50"}, 3, "36.00"},
		{"zero base", "0", []string{"2.00"}, 2, "4.00"},
		{"free extra", "5.00", []string{"0"}, 1, "5.00"},
		{"full precision kept", "3.333", []string{"0.111"}, 3, "10.332"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extras := make([]decimal.Decimal, 0, len(tt.extras))
			for _, e := range tt.extras {
				extras = append(extras, d(e))
			}
			got := LineTotal(d(tt.base), extras, tt.quantity)
			if !got.Equal(d(tt.want)) {
				t.Errorf("LineTotal() = %s, want %s", got, tt.want)
			}
		})
	}
}

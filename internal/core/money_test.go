package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "dot separator", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "integer", input: "500", want: 50000},
		{name: "single decimal", input: "12.3", want: 1230},
		{name: "third decimal rounds down", input: "12.344", want: 1234},
		{name: "third decimal rounds up", input: "12.346", want: 1235},
		{name: "leading dot", input: ".50", want: 50},
		{name: "whitespace trimmed", input: " 7.00 ", want: 700},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-1.00", wantErr: true},
		{name: "explicit plus", input: "+1.00", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "zero with decimals", input: "0.00", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToCents(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoney_FormatUSD(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 1234, want: "$12.34"},
		{cents: 5, want: "$0.05"},
		{cents: 50000, want: "$500.00"},
		{cents: -150, want: "-$1.50"},
		{cents: 0, want: "$0.00"},
	}

	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).FormatUSD(); got != tt.want {
			t.Errorf("FormatUSD(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

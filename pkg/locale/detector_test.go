package locale

import "testing"

func TestInferCurrencyFromPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "US phone", phone: "+12125551234", want: "USD"},
		{name: "US phone without plus", phone: "12125551234", want: "USD"},
		{name: "UK phone", phone: "+442071234567", want: "GBP"},
		{name: "German phone", phone: "+4915123456789", want: "EUR"},
		{name: "Israeli phone", phone: "+972541234567", want: "ILS"},
		{name: "unknown prefix falls back", phone: "+8613800138000", want: DefaultCurrency},
		{name: "empty phone falls back", phone: "", want: DefaultCurrency},
		{name: "garbage falls back", phone: "not-a-phone", want: DefaultCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferCurrencyFromPhone(tt.phone); got != tt.want {
				t.Errorf("InferCurrencyFromPhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestCountryByCode(t *testing.T) {
	if c := CountryByCode("us"); c == nil || c.Code != "US" {
		t.Errorf("expected case-insensitive lookup to return US, got %v", c)
	}
	if c := CountryByCode("XX"); c != nil {
		t.Errorf("expected nil for unknown code, got %v", c)
	}
}

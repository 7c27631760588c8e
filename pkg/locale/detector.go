package locale

import "strings"

func InferCountryFromPhone(phone string) *Country {
	normalized := strings.TrimSpace(phone)
	if normalized == "" {
		return nil
	}

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) {
				return &country
			}
		}
	}

	return nil
}

// InferCurrencyFromPhone defaults a listing's currency from the owner's
// contact phone prefix when the owner did not pick one.
func InferCurrencyFromPhone(phone string) string {
	if country := InferCountryFromPhone(phone); country != nil {
		return country.Currency
	}
	return DefaultCurrency
}

func CountryByCode(code string) *Country {
	if country, ok := Countries[strings.ToUpper(code)]; ok {
		return &country
	}
	return nil
}

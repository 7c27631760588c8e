package locale

const (
	DefaultCurrency = "USD"
)

type Country struct {
	Code          string   // ISO 3166-1 alpha-2 country code (e.g., "US", "CA")
	Name          string   // Human-readable country name
	PhonePrefixes []string // Phone number prefixes (e.g., ["+1", "1"])
	Currency      string   // ISO 4217 currency code listings default to
}

var Countries = map[string]Country{
	"US": {
		Code:          "US",
		Name:          "United States",
		PhonePrefixes: []string{"+1", "1"},
		Currency:      "USD",
	},
	"GB": {
		Code:          "GB",
		Name:          "United Kingdom",
		PhonePrefixes: []string{"+44", "44"},
		Currency:      "GBP",
	},
	"DE": {
		Code:          "DE",
		Name:          "Germany",
		PhonePrefixes: []string{"+49", "49"},
		Currency:      "EUR",
	},
	"FR": {
		Code:          "FR",
		Name:          "France",
		PhonePrefixes: []string{"+33", "33"},
		Currency:      "EUR",
	},
	"IL": {
		Code:          "IL",
		Name:          "Israel",
		PhonePrefixes: []string{"+972", "972"},
		Currency:      "ILS",
	},
	"AU": {
		Code:          "AU",
		Name:          "Australia",
		PhonePrefixes: []string{"+61", "61"},
		Currency:      "AUD",
	},
}

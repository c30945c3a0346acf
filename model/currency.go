package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Currency struct {
	Code        string `json:"code"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
	// Exponent is the number of minor unit digits.
	Exponent    int32  `json:"exponent"`
}

var currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar", CountryCode: "US", Exponent: 2},
	{Code: "EUR", Symbol: "€", Name: "Euro", CountryCode: "DE", Exponent: 2},
	{Code: "GBP", Symbol: "£", Name: "British Pound", CountryCode: "GB", Exponent: 2},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee", CountryCode: "IN", Exponent: 2},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", CountryCode: "JP", Exponent: 0},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", CountryCode: "CN", Exponent: 2},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar", CountryCode: "AU", Exponent: 2},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", CountryCode: "CA", Exponent: 2},
	{Code: "CHF", Symbol: "Fr", Name: "Swiss Franc", CountryCode: "CH", Exponent: 2},
	{Code: "SEK", Symbol: "kr", Name: "Swedish Krona", CountryCode: "SE", Exponent: 2},
	{Code: "NZD", Symbol: "NZ$", Name: "New Zealand Dollar", CountryCode: "NZ", Exponent: 2},
	{Code: "KRW", Symbol: "₩", Name: "South Korean Won", CountryCode: "KR", Exponent: 0},
	{Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", CountryCode: "SG", Exponent: 2},
	{Code: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar", CountryCode: "HK", Exponent: 2},
	{Code: "NOK", Symbol: "kr", Name: "Norwegian Krone", CountryCode: "NO", Exponent: 2},
	{Code: "MXN", Symbol: "$", Name: "Mexican Peso", CountryCode: "MX", Exponent: 2},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real", CountryCode: "BR", Exponent: 2},
	{Code: "ZAR", Symbol: "R", Name: "South African Rand", CountryCode: "ZA", Exponent: 2},
	{Code: "RUB", Symbol: "₽", Name: "Russian Ruble", CountryCode: "RU", Exponent: 2},
	{Code: "TRY", Symbol: "₺", Name: "Turkish Lira", CountryCode: "TR", Exponent: 2},
}

// LookupCurrency finds a currency by code. Unknown codes fall back to USD.
func LookupCurrency(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range currencies {
		if c.Code == code {
			return c, true
		}
	}
	return currencies[0], false
}

func CurrencyForCountry(countryCode string) (Currency, bool) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	for _, c := range currencies {
		if c.CountryCode == countryCode {
			return c, true
		}
	}
	return Currency{}, false
}

// FormatAmount renders a minor unit amount with the currency symbol, e.g.
// 1250 USD -> "$12.50".
func FormatAmount(amount int64, code string) string {
	c, _ := LookupCurrency(code)
	value := decimal.New(amount, -c.Exponent)
	sign := ""
	if value.IsNegative() {
		sign = "-"
		value = value.Abs()
	}
	return sign + c.Symbol + value.StringFixed(c.Exponent)
}

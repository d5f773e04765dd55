package money

import "testing"

func TestFormatTwoDecimalCurrencies(t *testing.T) {
	if got := Format(1200, "eur"); got != "12.00 EUR" {
		t.Fatalf("expected %q, got %q", "12.00 EUR", got)
	}
	if got := Format(1, "usd"); got != "0.01 USD" {
		t.Fatalf("expected %q, got %q", "0.01 USD", got)
	}
	if got := Format(999_99, "gbp"); got != "999.99 GBP" {
		t.Fatalf("expected %q, got %q", "999.99 GBP", got)
	}
}

func TestFormatZeroDecimalCurrencies(t *testing.T) {
	if got := Format(1200, "jpy"); got != "1200 JPY" {
		t.Fatalf("expected %q, got %q", "1200 JPY", got)
	}
	if got := Format(1200, "KRW"); got != "1200 KRW" {
		t.Fatalf("expected %q, got %q", "1200 KRW", got)
	}
}

func TestFormatEmptyCurrency(t *testing.T) {
	if got := Format(0, ""); got != "0.00 " {
		t.Fatalf("expected %q, got %q", "0.00 ", got)
	}
}

func TestDigits(t *testing.T) {
	cases := map[string]int{
		"jpy": 0,
		"JPY": 0,
		"krw": 0,
		"Krw": 0,
		"eur": 2,
		"usd": 2,
		"":    2,
	}
	for currency, want := range cases {
		if got := Digits(currency); got != want {
			t.Fatalf("Digits(%q): expected %d, got %d", currency, want, got)
		}
	}
}

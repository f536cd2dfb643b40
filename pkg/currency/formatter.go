package currency

import (
	"fmt"
	"strings"
)

// Format renders an amount for storefront display. The Tunisian dinar
// subdivides into millimes, so TND carries three decimals where EUR and
// USD carry two. Unknown codes fall back to two decimals.
func Format(amount float64, code string) string {
	code = strings.ToUpper(code)

	decimals := 2
	if code == "TND" {
		decimals = 3
	}

	negative := amount < 0
	if negative {
		amount = -amount
	}

	formatted := fmt.Sprintf("%.*f", decimals, amount)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := addThousandsSeparator(parts[0], " ")

	result := code + " " + intPart
	if len(parts) == 2 {
		result += "." + parts[1]
	}
	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}

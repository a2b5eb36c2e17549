package validators

import (
	"strings"
	"unicode"
)

// NormalizePhone keeps digits only, so "(11) 98888-7777" and "11988887777"
// identify the same customer.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) && r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsPhoneValid accepts 8 to 15 digits after normalisation.
func IsPhoneValid(phone string) bool {
	n := len(NormalizePhone(phone))
	return n >= 8 && n <= 15
}

func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

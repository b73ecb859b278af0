package validators

import (
	"strings"
	"unicode"
)

const MinPasswordLength = 8

// IsPasswordStrong exige tamanho mínimo, ao menos uma letra e um dígito.
func IsPasswordStrong(pw string) bool {
	if len(pw) < MinPasswordLength {
		return false
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// NormalizePhone mantém só os dígitos (e o + inicial).
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsPhoneValid(phone string) bool {
	digits := strings.TrimPrefix(NormalizePhone(phone), "+")
	return len(digits) >= 8 && len(digits) <= 15
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package tools

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9\s\-\(\)]+$`)
	rutRe   = regexp.MustCompile(`^\d{1,2}\.\d{3}\.\d{3}-[\dkK]$`)
)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidatePhone accepts the usual separators and needs a number
// NormalizePhone can turn into international form.
func ValidatePhone(phone string) bool {
	if !phoneRe.MatchString(phone) {
		return false
	}
	_, err := NormalizePhone(phone)
	return err == nil
}

// ValidateRUT checks the 12.345.678-9 layout and the modulo 11 check digit.
func ValidateRUT(rut string) bool {
	if !rutRe.MatchString(rut) {
		return false
	}
	body, dv, _ := strings.Cut(strings.ReplaceAll(rut, ".", ""), "-")

	sum, factor := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	var want string
	switch r := 11 - sum%11; r {
	case 11:
		want = "0"
	case 10:
		want = "K"
	default:
		want = string(rune('0' + r))
	}
	return strings.ToUpper(dv) == want
}

// MinPasswordLength vale quando o documento não define password.minLength.
const MinPasswordLength = 6

// CheckPassword reports whether password has at least n characters.
func CheckPassword(password string, n int) bool {
	return utf8.RuneCountInString(password) >= n
}

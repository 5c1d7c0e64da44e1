package tools

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizePhone deixa só os dígitos em formato internacional, sem '+'.
//
// Heurística (Chile):
// - remove tudo que não é dígito
// - 9 dígitos (celular 9XXXXXXXX ou fixo com área) -> prefixa 56
// - com DDI (>= 11 dígitos), mantém
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty phone")
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	phone := strings.TrimLeft(b.String(), "0")

	if len(phone) == 9 {
		phone = "56" + phone
	}
	if len(phone) < 11 || len(phone) > 15 {
		return "", fmt.Errorf("invalid phone length: %d", len(phone))
	}
	return phone, nil
}

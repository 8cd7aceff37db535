package normalize

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// NormalizePhoneDigits keeps digits and a leading '+'. The result is for
// comparison only; display formatting is kept on the record.
func NormalizePhoneDigits(phone string) string {
	s := strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "+" {
		return ""
	}
	return out
}

// PhoneMatchKey is NormalizePhoneDigits without the '+'.
func PhoneMatchKey(phone string) string {
	return strings.TrimPrefix(NormalizePhoneDigits(phone), "+")
}

// NormalizePhone returns the trimmed phone when it carries 10 to 16 digits,
// otherwise "".
func NormalizePhone(phone string) string {
	n := len(PhoneMatchKey(phone))
	if n < 10 || n > 16 {
		return ""
	}
	return strings.TrimSpace(phone)
}

// NormalizeEmail strips a mailto: prefix and returns the lowercased address
// when it is syntactically valid, otherwise "".
func NormalizeEmail(email string) string {
	s := strings.TrimSpace(email)
	if len(s) >= 7 && strings.EqualFold(s[:7], "mailto:") {
		s = s[7:]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	s = strings.ToLower(s)
	if s == "" || validate.Var(s, "required,email") != nil {
		return ""
	}
	return s
}

// NormalizeName is the comparison form of a display name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

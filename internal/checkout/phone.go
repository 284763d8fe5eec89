package checkout

import "strings"

// FormatPhone renders a phone input into the canonical mask
// +7 (XXX) XXX-XX-XX as digits are typed. A leading trunk digit
// ("7" or "8") is discarded so the mask always anchors on +7.
func FormatPhone(raw string) string {
	v := digits(raw)
	if v == "" {
		return ""
	}

	if v[0] == '7' || v[0] == '8' {
		v = v[1:]
	}

	var b strings.Builder
	b.WriteString("+7")
	if len(v) > 0 {
		b.WriteString(" (")
		b.WriteString(v[:min(3, len(v))])
	}
	if len(v) >= 4 {
		b.WriteString(") ")
		b.WriteString(v[3:min(6, len(v))])
	}
	if len(v) >= 7 {
		b.WriteString("-")
		b.WriteString(v[6:min(8, len(v))])
	}
	if len(v) >= 9 {
		b.WriteString("-")
		b.WriteString(v[8:min(10, len(v))])
	}
	return b.String()
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

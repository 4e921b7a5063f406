package otp

import "unicode/utf8"

// Abbreviate shortens a service label to at most maxLength bytes.
//
// A label that already fits is uppercased and returned as is. A longer one is
// uppercased with its vowels (A, E, I, O, U) dropped, collecting characters
// until maxLength is reached; whatever still does not fit is cut off.
func Abbreviate(input string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}

	upper := toUpperASCII(input)
	if len(upper) <= maxLength {
		return upper
	}

	out := make([]byte, 0, maxLength)
	for i := 0; i < len(upper) && len(out) < maxLength; {
		_, size := utf8.DecodeRuneInString(upper[i:])
		if size == 1 && isVowel(upper[i]) {
			i++
			continue
		}
		if len(out)+size > maxLength {
			break
		}
		out = append(out, upper[i:i+size]...)
		i += size
	}
	return truncate(string(out), maxLength)
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func isVowel(c byte) bool {
	switch c {
	case 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && n < len(s) && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}

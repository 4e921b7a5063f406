package otp

// base32Alphabet is the RFC 4648 alphabet.
const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

var base32Values = func() [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}
	for i := 0; i < len(base32Alphabet); i++ {
		c := base32Alphabet[i]
		table[c] = int8(i)
		if c >= 'A' && c <= 'Z' {
			table[c+('a'-'A')] = int8(i)
		}
	}
	return table
}()

// Decode leniently decodes base32 text into at most maxOutputBytes bytes.
// Letters are case-insensitive. Whitespace, hyphens, padding and any other
// character outside the alphabet are skipped. Trailing bits that do not make a
// whole byte are discarded. Decode never fails.
func Decode(input string, maxOutputBytes int) []byte {
	if maxOutputBytes <= 0 {
		return []byte{}
	}

	out := make([]byte, 0, min(maxOutputBytes, len(input)*5/8))
	var buffer uint32
	bits := 0

	for i := 0; i < len(input) && len(out) < maxOutputBytes; i++ {
		v := base32Values[input[i]]
		if v < 0 {
			continue
		}

		buffer = (buffer<<5 | uint32(v)) & 0xFFF // at most 12 pending bits
		bits += 5
		if bits >= 8 {
			out = append(out, byte(buffer>>(bits-8)))
			bits -= 8
		}
	}
	return out
}

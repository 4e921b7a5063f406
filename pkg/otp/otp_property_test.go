package otp

import (
	"bytes"
	"encoding/base32"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

var labelChars = strings.Split("abcdefghijklmnopqrstuvwxyzAEIOUXYZ0123456789 ", "")

func TestPropertyAbbreviateFits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxLength := rapid.IntRange(1, 12).Draw(t, "max")
		chars := rapid.SliceOfN(rapid.SampledFrom(labelChars), 0, maxLength).Draw(t, "chars")
		input := strings.Join(chars, "")

		if got := Abbreviate(input, maxLength); got != strings.ToUpper(input) {
			t.Fatalf("Abbreviate(%q, %d) = %q", input, maxLength, got)
		}
	})
}

func TestPropertyAbbreviateLong(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxLength := rapid.IntRange(1, 12).Draw(t, "max")
		input := rapid.StringMatching(`[A-Za-z0-9 ]{13,40}`).Draw(t, "input")

		got := Abbreviate(input, maxLength)
		if len(got) > maxLength {
			t.Fatalf("Abbreviate(%q, %d) = %q is too long", input, maxLength, got)
		}
		if strings.ContainsAny(got, "AEIOU") {
			t.Fatalf("Abbreviate(%q, %d) = %q keeps a vowel", input, maxLength, got)
		}
		if got != Abbreviate(input, maxLength) {
			t.Fatalf("Abbreviate is not deterministic for %q", input)
		}
	})
}

func TestPropertyDecodeMatchesStdlib(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 32).Draw(t, "data")
		encoded := base32.StdEncoding.EncodeToString(data)
		if rapid.Bool().Draw(t, "lower") {
			encoded = strings.ToLower(encoded)
		}

		if got := Decode(encoded, 32); !bytes.Equal(got, data) {
			t.Fatalf("Decode(%q) = %x, want %x", encoded, got, data)
		}

		limit := rapid.IntRange(0, 32).Draw(t, "limit")
		want := data[:min(limit, len(data))]
		if got := Decode(encoded, limit); !bytes.Equal(got, want) {
			t.Fatalf("Decode(%q, %d) = %x, want %x", encoded, limit, got, want)
		}
	})
}

func TestPropertyDecodeSkipOnly(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.StringMatching(`[ \t\r\n\-]{0,20}`).Draw(t, "input")
		if got := Decode(input, 32); len(got) != 0 {
			t.Fatalf("Decode(%q) = %x, want empty", input, got)
		}
	})
}

func TestPropertyProgress(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		epoch := rapid.Int64Range(0, 1<<40).Draw(t, "epoch")
		p := ProgressPercentage(epoch)
		if p < 0 || p > 100 {
			t.Fatalf("progress %d out of range at %d", p, epoch)
		}
		if epoch%PeriodSeconds == 0 && p != 100 {
			t.Fatalf("progress %d at period boundary %d", p, epoch)
		}
		if epoch%PeriodSeconds != PeriodSeconds-1 {
			if next := ProgressPercentage(epoch + 1); next >= p {
				t.Fatalf("progress did not decrease: %d -> %d at %d", p, next, epoch)
			}
		}
	})
}

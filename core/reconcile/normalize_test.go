package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"PadsShortDigits", "123", "000000123"},
		{"KeepsNineDigits", "123456789", "123456789"},
		{"LongRunsPassThroughUnpadded", "1234567890", "1234567890"},
		{"StripsNonDigits", "MTS-42/7", "000000427"},
		{"StripsInnerWhitespace", "  77 12 ", "000007712"},
		{"Empty", "", ""},
		{"WhitespaceOnly", "   ", ""},
		{"NoDigits", "n/a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeID(tt.in))
		})
	}
}

func TestNormalizeBool(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   int
		wantOK bool
	}{
		{"StringOne", "1", 1, true},
		{"StringZero", "0", 0, true},
		{"RussianYes", "да", 1, true},
		{"RussianNoWithSpaces", " Нет ", 0, true},
		{"EnglishTrueUpper", "TRUE", 1, true},
		{"ShortY", "y", 1, true},
		{"NativeBool", true, 1, true},
		{"IntOne", 1, 1, true},
		{"IntZero", 0, 0, true},
		{"FloatOne", float64(1), 1, true},
		{"AmbiguousNumber", 2, 0, false},
		{"AmbiguousText", "maybe", 0, false},
		{"Empty", "", 0, false},
		{"Nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeBool(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCertFlagFromComment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"EmptyCommentConfirms", "", 1},
		{"WhitespaceOnlyConfirms", "   ", 1},
		{"ExceptionPhraseConfirms", "есть все, но со стороны мтс нет сертификата", 1},
		{"ExceptionPhraseCaseAndSpacing", "  ЕСТЬ ВСЕ, НО СО СТОРОНЫ МТС НЕТ СЕРТИФИКАТА ", 1},
		{"AnyOtherCommentBlocks", "нет договора", 0},
		{"PartialPhraseBlocks", "есть все", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CertFlagFromComment(tt.in))
		})
	}
}

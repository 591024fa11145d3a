package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompressIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want string
	}{
		{"MixedRunsAndSingles", []int{1, 2, 3, 7, 8, 15}, "(1–3) (7–8) (15)"},
		{"UnsortedWithDuplicates", []int{15, 3, 1, 2, 2, 8, 7}, "(1–3) (7–8) (15)"},
		{"SingleID", []int{5}, "(5)"},
		{"OneLongRun", []int{4, 5, 6, 7}, "(4–7)"},
		{"Empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompressIDs(tt.in).String())
		})
	}
}

func TestCompressIDsRanges(t *testing.T) {
	got := CompressIDs([]int{10, 11, 20})
	assert.Equal(t, Ranges{{Low: 10, High: 11}, {Low: 20, High: 20}}, got)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   int
		wantOK bool
	}{
		{"PlainNumber", "101", 101, true},
		{"ZeroPadded", "00101", 101, true},
		{"DigitsInsideText", "Т-00345", 345, true},
		{"NoDigits", "abc", 0, false},
		{"Empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseID(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIDs(t *testing.T) {
	got := ParseIDs([]string{"1", "", "x", "00042"})
	assert.Equal(t, []int{1, 42}, got)
}

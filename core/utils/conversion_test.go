package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToUint64(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    uint64
		wantErr bool
	}{
		{"Uint64", uint64(7), 7, false},
		{"Int", 42, 42, false},
		{"NegativeInt", -1, 0, true},
		{"Float", float64(12), 12, false},
		{"FractionalFloat", 1.5, 0, true},
		{"JSONNumber", json.Number("99"), 99, false},
		{"String", " 15 ", 15, false},
		{"Bytes", []byte("3"), 3, false},
		{"BadString", "abc", 0, true},
		{"Nil", nil, 0, true},
		{"Bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToUint64(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"Commas", "a@x.com, b@x.com", []string{"a@x.com", "b@x.com"}},
		{"BlankEntry", "a@x.com, , b@x.com", []string{"a@x.com", "b@x.com"}},
		{"Newlines", "a@x.com\r\nb@x.com\n\nc@x.com", []string{"a@x.com", "b@x.com", "c@x.com"}},
		{"Mixed", "a@x.com,\nb@x.com", []string{"a@x.com", "b@x.com"}},
		{"Duplicates", "a@x.com,a@x.com", []string{"a@x.com", "a@x.com"}},
		{"Empty", "  ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.in))
		})
	}
}

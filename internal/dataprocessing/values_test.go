package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "261.96", want: "261.96"},
		{name: "thousands", input: "1,234,567.5", want: "1234567.5"},
		{name: "naira", input: "₦ 1,000", want: "1000"},
		{name: "dollar", input: "$12.30", want: "12.3"},
		{name: "parentheses", input: "(12.50)", want: "-12.5"},
		{name: "exponent", input: "1.5E+3", want: "1500"},
		{name: "blank", input: "  ", want: "0"},
		{name: "text", input: "ten", wantErr: true},
		{name: "symbol only", input: "$", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		allowSerial bool
		want        time.Time
		wantErr     bool
	}{
		{name: "iso", input: "2014-11-08", want: day(2014, time.November, 8)},
		{name: "iso with time", input: "2014-11-08 13:45:00", want: time.Date(2014, time.November, 8, 13, 45, 0, 0, time.UTC)},
		{name: "us", input: "11/8/2014", want: day(2014, time.November, 8)},
		{name: "day first", input: "25/03/2014", want: day(2014, time.March, 25)},
		{name: "serial", input: "41951", allowSerial: true, want: day(2014, time.November, 8)},
		{name: "serial in csv", input: "41951", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input, tt.allowSerial)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

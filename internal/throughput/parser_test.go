package throughput

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Measurement
	}{
		{
			name: "single line",
			raw:  "eth0: 100 bytes/sec",
			want: []Measurement{{Name: "eth0", BytesPerSec: 100}},
		},
		{
			name: "powershell counter output",
			raw: "intel[r] ethernet connection i219-v: 1523.45 bytes/sec\r\n" +
				"wi-fi 6 ax201: 0.00 bytes/sec\r\n",
			want: []Measurement{
				{Name: "intel[r] ethernet connection i219-v", BytesPerSec: 1523.45},
				{Name: "wi-fi 6 ax201", BytesPerSec: 0},
			},
		},
		{
			name: "case and whitespace tolerant",
			raw:  "  Wi-Fi :   42.5   Bytes/Sec  ",
			want: []Measurement{{Name: "Wi-Fi", BytesPerSec: 42.5}},
		},
		{
			name: "malformed lines dropped",
			raw:  "header text\neth0: 10 bytes/sec\neth1: fast bytes/sec\neth2: 5 packets/sec\n\n",
			want: []Measurement{{Name: "eth0", BytesPerSec: 10}},
		},
		{
			name: "unparseable number dropped",
			raw:  "eth0: 1.2.3 bytes/sec\neth1: 7 bytes/sec",
			want: []Measurement{{Name: "eth1", BytesPerSec: 7}},
		},
		{
			name: "name stops at first colon",
			raw:  "a: b: 3 bytes/sec",
			want: nil,
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestParseNeverExceedsLineCount(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"::::",
		"x: 1 bytes/sec\ny: 2 bytes/sec",
		"garbage\x00\x01: 9 bytes/sec",
	}
	for _, in := range inputs {
		got := Parse(in)
		assert.LessOrEqual(t, len(got), len(strings.Split(in, "\n")))
	}
}

func TestParseGeneratedReport(t *testing.T) {
	var lines []string
	var want []Measurement
	for i := 0; i < 25; i++ {
		m := Measurement{Name: fmt.Sprintf("adapter %d", i), BytesPerSec: float64(i) * 1.5}
		want = append(want, m)
		lines = append(lines, fmt.Sprintf("%s: %g bytes/sec", m.Name, m.BytesPerSec))
	}

	got := Parse(strings.Join(lines, "\n"))
	require.Len(t, got, len(want))
	assert.Equal(t, want, got)
}

func TestFormatParsesBack(t *testing.T) {
	ms := []Measurement{{Name: "eth0", BytesPerSec: 12.5}, {Name: "wlan0", BytesPerSec: 0}}
	assert.Equal(t, ms, Parse(Format(ms)))
	assert.Equal(t, []string{"eth0", "wlan0"}, Names(ms))
}

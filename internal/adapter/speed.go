package adapter

import (
	"math"
	"strconv"
	"strings"
)

var speedUnits = map[string]float64{
	"bps":  1,
	"kbps": 1e3,
	"mbps": 1e6,
	"gbps": 1e9,
	"tbps": 1e12,
}

// ParseLinkSpeed converts a Get-NetAdapter LinkSpeed such as "866.7 Mbps"
// into bits per second.
func ParseLinkSpeed(s string) (uint64, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	mult, ok := speedUnits[strings.ToLower(fields[1])]
	if !ok {
		return 0, false
	}
	bps := v * mult
	if bps >= math.MaxUint64 {
		return 0, false
	}
	return uint64(bps), true
}

// FormatLinkSpeed renders a speed in Mbps the way Get-NetAdapter does.
func FormatLinkSpeed(mbps uint64) string {
	switch {
	case mbps == 0:
		return ""
	case mbps >= 1000 && mbps%1000 == 0:
		return strconv.FormatUint(mbps/1000, 10) + " Gbps"
	case mbps >= 1000:
		return strconv.FormatFloat(float64(mbps)/1000, 'f', 1, 64) + " Gbps"
	default:
		return strconv.FormatUint(mbps, 10) + " Mbps"
	}
}

// LinkBitsPerSec is a's parsed link speed, 0 when unknown.
func (a Adapter) LinkBitsPerSec() uint64 {
	bps, _ := ParseLinkSpeed(a.LinkSpeed)
	return bps
}

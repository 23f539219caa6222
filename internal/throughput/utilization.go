package throughput

// Utilization returns the percentage of a link's capacity that bytesPerSec
// uses. It returns 0 when the link speed is unknown.
func Utilization(bytesPerSec float64, linkBitsPerSec uint64) float64 {
	if linkBitsPerSec == 0 {
		return 0
	}
	return bytesPerSec * 8 / float64(linkBitsPerSec) * 100
}

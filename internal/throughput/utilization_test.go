package throughput

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUtilization(t *testing.T) {
	// 62.5 MB/s on a 1 Gbps link is half the link.
	assert.InDelta(t, 50, Utilization(62_500_000, 1_000_000_000), 0.001)
	assert.Zero(t, Utilization(1000, 0))
	assert.Zero(t, Utilization(0, 100_000_000))
}

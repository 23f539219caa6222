package source

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonhe/ifwatch/internal/adapter"
	"github.com/tonhe/ifwatch/internal/config"
	"github.com/tonhe/ifwatch/internal/throughput"
)

// fakeAgent serves walks from a table of OID -> index -> value.
type fakeAgent struct {
	table     map[string]map[int]any
	bulkWalks int
	walks     int
}

func (f *fakeAgent) serve(root string, fn gosnmp.WalkFunc) error {
	for idx, v := range f.table[root] {
		pdu := gosnmp.SnmpPDU{Name: "." + root + "." + big.NewInt(int64(idx)).String()}
		switch val := v.(type) {
		case string:
			pdu.Type = gosnmp.OctetString
			pdu.Value = []byte(val)
		case int:
			pdu.Type = gosnmp.Integer
			pdu.Value = val
		case uint64:
			pdu.Type = gosnmp.Counter64
			pdu.Value = val
		}
		if err := fn(pdu); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAgent) Walk(root string, fn gosnmp.WalkFunc) error {
	f.walks++
	return f.serve(root, fn)
}

func (f *fakeAgent) BulkWalk(root string, fn gosnmp.WalkFunc) error {
	f.bulkWalks++
	return f.serve(root, fn)
}

func newTestSNMP(cfg config.SNMPConfig, agent *fakeAgent) *SNMP {
	s := &SNMP{cfg: cfg, log: discardLogger()}
	s.dial = func() (walker, error) { return agent, nil }
	s.counters = newCounterReporter(s.collectCounters, time.Second, discardLogger())
	s.counters.now = steppingClock()
	s.counters.sleep = func(context.Context, time.Duration) error { return nil }
	return s
}

func routerAgent() *fakeAgent {
	return &fakeAgent{table: map[string]map[int]any{
		OIDifName:       {1: "Gi0/1", 2: "Gi0/2", 3: "Lo0"},
		OIDifDescr:      {1: "GigabitEthernet0/1", 2: "GigabitEthernet0/2", 3: "Loopback0"},
		OIDifHighSpeed:  {1: 1000, 2: 100, 3: 0},
		OIDifType:       {1: 6, 2: 6, 3: 24},
		OIDifOperStatus: {1: 1, 2: 2, 3: 1},
	}}
}

func TestSNMPAdapterListing(t *testing.T) {
	agent := routerAgent()
	s := newTestSNMP(config.SNMPConfig{Host: "router", Version: "2c"}, agent)

	out, err := s.AdapterListing(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []adapter.Adapter{
		{Name: "Gi0/1", Description: "GigabitEthernet0/1", Index: 1, LinkSpeed: "1 Gbps", InterfaceType: 6},
		{Name: "Lo0", Description: "Loopback0", Index: 3, InterfaceType: 24},
	}, adapter.ParseListing(out))
	assert.Equal(t, 5, agent.bulkWalks)
	assert.Zero(t, agent.walks)
}

func TestSNMPv1UsesPlainWalk(t *testing.T) {
	agent := routerAgent()
	s := newTestSNMP(config.SNMPConfig{Host: "router", Version: "1"}, agent)

	_, err := s.AdapterListing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, agent.walks)
	assert.Zero(t, agent.bulkWalks)
}

func TestSNMPThroughputReport(t *testing.T) {
	agent := &fakeAgent{table: map[string]map[int]any{
		OIDifName:        {1: "Gi0/1", 2: ""},
		OIDifHCInOctets:  {1: uint64(1000), 2: uint64(0)},
		OIDifHCOutOctets: {1: uint64(1000), 2: uint64(0)},
	}}
	s := newTestSNMP(config.SNMPConfig{Host: "router"}, agent)

	// The first report compares two walks of the same counters.
	out, err := s.ThroughputReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []throughput.Measurement{
		{Name: "Gi0/1", BytesPerSec: 0},
		{Name: "if2", BytesPerSec: 0},
	}, throughput.Parse(out))

	agent.table[OIDifHCInOctets][1] = uint64(3000)
	agent.table[OIDifHCOutOctets][1] = uint64(1500)
	out, err = s.ThroughputReport(context.Background())
	require.NoError(t, err)
	ms := throughput.Parse(out)
	require.Len(t, ms, 2)
	assert.Equal(t, "Gi0/1", ms[0].Name)
	assert.Equal(t, 2500.0, ms[0].BytesPerSec)
}

func TestNewSNMPClient(t *testing.T) {
	client, err := NewSNMPClient(config.SNMPConfig{
		Host:      "192.0.2.1",
		Version:   "3",
		Username:  "monitor",
		AuthProto: "sha256",
		AuthPass:  "authpass",
		PrivProto: "AES",
		PrivPass:  "privpass",
	}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint16(161), client.Port)
	assert.Equal(t, gosnmp.Version3, client.Version)
	assert.Equal(t, gosnmp.AuthPriv, client.MsgFlags)

	usm, ok := client.SecurityParameters.(*gosnmp.UsmSecurityParameters)
	require.True(t, ok)
	assert.Equal(t, gosnmp.SHA256, usm.AuthenticationProtocol)
	assert.Equal(t, gosnmp.AES, usm.PrivacyProtocol)

	client, err = NewSNMPClient(config.SNMPConfig{Host: "h", Port: 1161, Community: "private"}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, gosnmp.Version2c, client.Version)
	assert.Equal(t, uint16(1161), client.Port)

	_, err = NewSNMPClient(config.SNMPConfig{Host: "h", Version: "4"}, time.Second)
	assert.Error(t, err)
}

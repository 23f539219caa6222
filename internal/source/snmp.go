package source

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/tonhe/ifwatch/internal/adapter"
	"github.com/tonhe/ifwatch/internal/config"
)

// SNMP OIDs for interface monitoring.
const (
	OIDifName        = "1.3.6.1.2.1.31.1.1.1.1"
	OIDifDescr       = "1.3.6.1.2.1.2.2.1.2"
	OIDifType        = "1.3.6.1.2.1.2.2.1.3"
	OIDifHCInOctets  = "1.3.6.1.2.1.31.1.1.1.6"
	OIDifHCOutOctets = "1.3.6.1.2.1.31.1.1.1.10"
	OIDifHighSpeed   = "1.3.6.1.2.1.31.1.1.1.15"
	OIDifOperStatus  = "1.3.6.1.2.1.2.2.1.8"
)

// walker is the part of *gosnmp.GoSNMP the source uses.
type walker interface {
	Walk(rootOid string, walkFn gosnmp.WalkFunc) error
	BulkWalk(rootOid string, walkFn gosnmp.WalkFunc) error
}

// SNMP reads a remote device's interface table. The listing is built from
// ifName, ifDescr, ifHighSpeed and ifType; the report from HC octet deltas.
type SNMP struct {
	cfg config.SNMPConfig
	log *slog.Logger

	mu     sync.Mutex
	client *gosnmp.GoSNMP
	dial   func() (walker, error)
	conn   walker

	counters *counterReporter
}

// NewSNMP validates cfg and creates an SNMP source. The connection is opened
// on first use.
func NewSNMP(cfg config.SNMPConfig, sampleInterval time.Duration, logger *slog.Logger) (*SNMP, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("snmp source: host is required")
	}
	client, err := NewSNMPClient(cfg, 5*time.Second)
	if err != nil {
		return nil, err
	}
	logger = orDiscard(logger)
	s := &SNMP{cfg: cfg, log: logger, client: client}
	s.dial = func() (walker, error) {
		if err := s.client.Connect(); err != nil {
			return nil, fmt.Errorf("connect to %s: %w", cfg.Host, err)
		}
		return s.client, nil
	}
	s.counters = newCounterReporter(s.collectCounters, sampleInterval, logger)
	return s, nil
}

// NewSNMPClient creates a gosnmp.GoSNMP client configured from cfg.
func NewSNMPClient(cfg config.SNMPConfig, timeout time.Duration) (*gosnmp.GoSNMP, error) {
	port := cfg.Port
	if port == 0 {
		port = 161
	}
	client := &gosnmp.GoSNMP{
		Target:  cfg.Host,
		Port:    uint16(port),
		Timeout: timeout,
		Retries: 2,
		MaxOids: gosnmp.MaxOids,
	}

	switch cfg.Version {
	case "1":
		client.Version = gosnmp.Version1
		client.Community = cfg.Community
	case "", "2c":
		client.Version = gosnmp.Version2c
		client.Community = cfg.Community
	case "3":
		client.Version = gosnmp.Version3
		client.SecurityModel = gosnmp.UserSecurityModel
		client.MsgFlags = snmpv3MsgFlags(cfg)
		client.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 cfg.Username,
			AuthenticationProtocol:   snmpv3AuthProto(cfg.AuthProto),
			AuthenticationPassphrase: cfg.AuthPass,
			PrivacyProtocol:          snmpv3PrivProto(cfg.PrivProto),
			PrivacyPassphrase:        cfg.PrivPass,
		}
	default:
		return nil, fmt.Errorf("unsupported SNMP version: %s", cfg.Version)
	}
	return client, nil
}

func snmpv3MsgFlags(cfg config.SNMPConfig) gosnmp.SnmpV3MsgFlags {
	if cfg.PrivProto != "" && cfg.PrivPass != "" {
		return gosnmp.AuthPriv
	}
	if cfg.AuthProto != "" && cfg.AuthPass != "" {
		return gosnmp.AuthNoPriv
	}
	return gosnmp.NoAuthNoPriv
}

func snmpv3AuthProto(proto string) gosnmp.SnmpV3AuthProtocol {
	switch strings.ToUpper(proto) {
	case "MD5":
		return gosnmp.MD5
	case "SHA":
		return gosnmp.SHA
	case "SHA256":
		return gosnmp.SHA256
	case "SHA512":
		return gosnmp.SHA512
	default:
		return gosnmp.NoAuth
	}
}

func snmpv3PrivProto(proto string) gosnmp.SnmpV3PrivProtocol {
	switch strings.ToUpper(proto) {
	case "DES":
		return gosnmp.DES
	case "AES", "AES128":
		return gosnmp.AES
	case "AES192":
		return gosnmp.AES192
	case "AES256":
		return gosnmp.AES256
	default:
		return gosnmp.NoPriv
	}
}

// connection returns the open connection, dialing on first use. The caller
// must hold s.mu.
func (s *SNMP) connection(ctx context.Context) (walker, error) {
	if s.client != nil {
		s.client.Context = ctx
	}
	if s.conn != nil {
		return s.conn, nil
	}
	conn, err := s.dial()
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return conn, nil
}

// Close releases the UDP connection, if one was opened.
func (s *SNMP) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil || s.client == nil || s.client.Conn == nil {
		return nil
	}
	s.conn = nil
	return s.client.Conn.Close()
}

// AdapterListing walks the interface table and renders the operationally up
// interfaces in the Get-NetAdapter CSV layout.
func (s *SNMP) AdapterListing(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := s.connection(ctx)
	if err != nil {
		return "", err
	}

	byIndex := make(map[int]*adapter.Adapter)
	status := make(map[int]int)
	entry := func(idx int) *adapter.Adapter {
		if _, ok := byIndex[idx]; !ok {
			byIndex[idx] = &adapter.Adapter{Index: idx}
		}
		return byIndex[idx]
	}

	if err := s.walkOID(conn, OIDifName, func(idx int, val string) {
		entry(idx).Name = val
	}); err != nil {
		return "", err
	}
	if err := s.walkOID(conn, OIDifDescr, func(idx int, val string) {
		a := entry(idx)
		if a.Name == "" {
			a.Name = val
		}
		a.Description = val
	}); err != nil {
		return "", err
	}
	if err := s.walkOID(conn, OIDifHighSpeed, func(idx int, val string) {
		if a, ok := byIndex[idx]; ok {
			speed, _ := strconv.ParseUint(val, 10, 64)
			a.LinkSpeed = adapter.FormatLinkSpeed(speed)
		}
	}); err != nil {
		s.log.Debug("ifHighSpeed walk failed", "err", err)
	}
	if err := s.walkOID(conn, OIDifType, func(idx int, val string) {
		if a, ok := byIndex[idx]; ok {
			a.InterfaceType, _ = strconv.Atoi(val)
		}
	}); err != nil {
		s.log.Debug("ifType walk failed", "err", err)
	}
	if err := s.walkOID(conn, OIDifOperStatus, func(idx int, val string) {
		status[idx], _ = strconv.Atoi(val)
	}); err != nil {
		s.log.Debug("ifOperStatus walk failed", "err", err)
	}

	indexes := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	var adapters []adapter.Adapter
	for _, idx := range indexes {
		// Missing status means the agent didn't expose ifOperStatus; keep it.
		if st, ok := status[idx]; ok && st != 1 {
			continue
		}
		adapters = append(adapters, *byIndex[idx])
	}
	return adapter.FormatListing(adapters), nil
}

// ThroughputReport returns bytes/sec per interface since the previous call.
func (s *SNMP) ThroughputReport(ctx context.Context) (string, error) {
	return s.counters.report(ctx)
}

// Reset drops the previous counter sample.
func (s *SNMP) Reset() {
	s.counters.reset()
}

// collectCounters walks the interface names and HC octet counters.
func (s *SNMP) collectCounters(ctx context.Context) ([]namedCounters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := s.connection(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string)
	counters := make(map[int]*CounterSample)
	if err := s.walkOID(conn, OIDifName, func(idx int, val string) {
		names[idx] = val
	}); err != nil {
		return nil, err
	}
	if err := s.walkOID(conn, OIDifHCInOctets, func(idx int, val string) {
		n, _ := strconv.ParseUint(val, 10, 64)
		if counters[idx] == nil {
			counters[idx] = &CounterSample{}
		}
		counters[idx].InOctets = n
	}); err != nil {
		return nil, err
	}
	if err := s.walkOID(conn, OIDifHCOutOctets, func(idx int, val string) {
		n, _ := strconv.ParseUint(val, 10, 64)
		if counters[idx] == nil {
			counters[idx] = &CounterSample{}
		}
		counters[idx].OutOctets = n
	}); err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(counters))
	for idx := range counters {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	out := make([]namedCounters, 0, len(indexes))
	for _, idx := range indexes {
		name := names[idx]
		if name == "" {
			name = "if" + strconv.Itoa(idx)
		}
		out = append(out, namedCounters{Name: name, Counters: *counters[idx]})
	}
	return out, nil
}

// walkOID walks oid and calls handler for each PDU, extracting the ifIndex
// from the last OID component. SNMPv1 agents get a plain walk.
func (s *SNMP) walkOID(conn walker, oid string, handler func(int, string)) error {
	fn := func(pdu gosnmp.SnmpPDU) error {
		parts := strings.Split(pdu.Name, ".")
		idx, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			return nil
		}
		var val string
		switch pdu.Type {
		case gosnmp.OctetString:
			b, _ := pdu.Value.([]byte)
			val = string(b)
		default:
			val = gosnmp.ToBigInt(pdu.Value).String()
		}
		handler(idx, val)
		return nil
	}
	if s.cfg.Version == "1" {
		return conn.Walk(oid, fn)
	}
	return conn.BulkWalk(oid, fn)
}

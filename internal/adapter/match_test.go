package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testAdapters() []Adapter {
	return []Adapter{
		{Name: "eth0", Description: "Realtek PCIe GbE Family Controller", Index: 3, InterfaceType: TypeEthernet},
		{Name: "Wi-Fi", Description: "Intel(R) Wi-Fi 6 AX201 160MHz", Index: 7, InterfaceType: TypeWiFi},
		{Name: "Cellular", Description: "Generic Mobile Broadband Adapter", Index: 9, InterfaceType: TypeCellular},
	}
}

func TestMatchByName(t *testing.T) {
	a, ok := Match(testAdapters(), "Eth-0")
	assert.True(t, ok)
	assert.Equal(t, "eth0", a.Name)
}

func TestMatchNameIsCaseAndPunctuationInsensitive(t *testing.T) {
	a, ok := Match(testAdapters(), "WIFI")
	assert.True(t, ok)
	assert.Equal(t, 7, a.Index)
}

func TestMatchByDescription(t *testing.T) {
	// Get-Counter reports instance names that are mangled descriptions.
	a, ok := Match(testAdapters(), "intel[r] wi-fi 6 ax201 160mhz")
	assert.True(t, ok)
	assert.Equal(t, "Wi-Fi", a.Name)
}

func TestMatchDescriptionEitherDirection(t *testing.T) {
	a, ok := Match(testAdapters(), "Realtek PCIe GbE Family Controller #2")
	assert.True(t, ok)
	assert.Equal(t, "eth0", a.Name)

	a, ok = Match(testAdapters(), "mobile broadband")
	assert.True(t, ok)
	assert.Equal(t, "Cellular", a.Name)
}

func TestMatchNamePreferredOverDescription(t *testing.T) {
	adapters := []Adapter{
		{Name: "first", Description: "contains ethernet somewhere"},
		{Name: "Ethernet", Description: "unrelated"},
	}
	a, ok := Match(adapters, "ethernet")
	assert.True(t, ok)
	assert.Equal(t, "Ethernet", a.Name)
}

func TestMatchFirstWins(t *testing.T) {
	adapters := []Adapter{
		{Name: "Ethernet", Index: 1},
		{Name: "ethernet", Index: 2},
	}
	a, ok := Match(adapters, "ETHERNET")
	assert.True(t, ok)
	assert.Equal(t, 1, a.Index)
}

func TestMatchNone(t *testing.T) {
	_, ok := Match(testAdapters(), "isatap.{1234}")
	assert.False(t, ok)

	_, ok = Match(nil, "eth0")
	assert.False(t, ok)
}

func TestMatchPunctuationOnlyChannel(t *testing.T) {
	_, ok := Match(testAdapters(), "--- ()")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "intelrwifi6ax201", normalize("Intel(R) Wi-Fi 6 AX201"))
	assert.Equal(t, "", normalize("é-_ "))
}

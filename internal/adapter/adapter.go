package adapter

import "strconv"

// Adapter is one row of the adapter listing.
type Adapter struct {
	Name          string
	Description   string
	Index         int
	LinkSpeed     string
	InterfaceType int
}

// Interface type codes reported by Get-NetAdapter (IANA ifType values).
const (
	TypeEthernet     = 6
	TypeFastEthernet = 24
	TypeWiMAX        = 62
	TypeWiFi         = 71
	TypeCellular     = 151
)

var typeNames = map[int]string{
	TypeEthernet:     "Ethernet",
	TypeWiFi:         "WiFi",
	TypeFastEthernet: "Fast Ethernet",
	TypeWiMAX:        "WiMAX",
	TypeCellular:     "Cellular",
}

// Classify returns the human category for an interface type code.
// Unmapped codes come back as "Type <n>".
func Classify(code int) string {
	if name, ok := typeNames[code]; ok {
		return name
	}
	return "Type " + strconv.Itoa(code)
}

// Category is the classified interface type of a.
func (a Adapter) Category() string {
	return Classify(a.InterfaceType)
}

package adapter

import (
	"strconv"
	"strings"
)

// Schema is the number of fields a listing row must carry.
type Schema int

const (
	// SchemaBasic is name, description, index and link speed.
	SchemaBasic Schema = 4
	// SchemaTyped adds the numeric interface type.
	SchemaTyped Schema = 5
)

// ParseListing parses the five-column CSV produced by
// Get-NetAdapter | Select-Object ... | ConvertTo-Csv.
func ParseListing(raw string) []Adapter {
	return ParseListingSchema(raw, SchemaTyped)
}

// ParseListingSchema parses an adapter listing. The first line is always
// treated as a header. Rows with fewer fields than schema are dropped, and
// numeric fields that don't parse become 0.
func ParseListingSchema(raw string, schema Schema) []Adapter {
	lines := strings.Split(raw, "\n")
	if len(lines) < 2 {
		return nil
	}

	var out []Adapter
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitFields(line)
		if len(fields) < int(schema) {
			continue
		}
		a := Adapter{
			Name:        fields[0],
			Description: fields[1],
			Index:       atoiOrZero(fields[2]),
			LinkSpeed:   fields[3],
		}
		if schema >= SchemaTyped {
			a.InterfaceType = atoiOrZero(fields[4])
		}
		out = append(out, a)
	}
	return out
}

// splitFields tokenizes one CSV row. A quoted span is kept as one field even
// when it contains commas. Each field is trimmed and loses one leading and
// one trailing quote.
func splitFields(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, cleanField(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cleanField(cur.String()))
	return fields
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// listingHeader is the header line ConvertTo-Csv writes for the typed schema.
const listingHeader = `"Name","InterfaceDescription","ifIndex","LinkSpeed","InterfaceType"`

// FormatListing renders adapters in the quoted CSV layout ParseListing reads.
func FormatListing(adapters []Adapter) string {
	var b strings.Builder
	b.WriteString(listingHeader)
	b.WriteByte('\n')
	for _, a := range adapters {
		fields := []string{
			a.Name,
			a.Description,
			strconv.Itoa(a.Index),
			a.LinkSpeed,
			strconv.Itoa(a.InterfaceType),
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `'`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

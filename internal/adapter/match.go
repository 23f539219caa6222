package adapter

import "strings"

// Match finds the adapter a throughput channel belongs to.
//
// Both sides are normalized to lower-case ASCII letters and digits. An exact
// match against the adapter name wins; otherwise the first adapter whose
// description contains the channel, or is contained by it, is returned.
// The result is best effort and only meant for display.
func Match(adapters []Adapter, channel string) (Adapter, bool) {
	key := normalize(channel)
	if key == "" {
		return Adapter{}, false
	}

	for _, a := range adapters {
		if normalize(a.Name) == key {
			return a, true
		}
	}

	for _, a := range adapters {
		desc := normalize(a.Description)
		if desc == "" {
			continue
		}
		if strings.Contains(desc, key) || strings.Contains(key, desc) {
			return a, true
		}
	}
	return Adapter{}, false
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		}
	}
	return b.String()
}

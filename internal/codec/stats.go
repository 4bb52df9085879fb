package codec

import "strings"

// Stats summarizes a compressed value list.
type Stats struct {
	// Entries is the length of the value list.
	Entries int `json:"entries"`

	// Schemas is the number of distinct schema entries referenced by objects.
	Schemas int `json:"schemas"`

	// Bytes is the total length of all encoded strings.
	Bytes int `json:"bytes"`

	// ByKind counts entries per kind: bool, number, special, string,
	// array, object.
	ByKind map[string]int `json:"by_kind"`
}

// ComputeStats inspects c without decoding it.
func ComputeStats(c Compressed) Stats {
	st := Stats{
		Entries: len(c.Values),
		ByKind:  make(map[string]int),
	}

	schemas := make(map[string]struct{})
	for _, encoded := range c.Values {
		st.Bytes += len(encoded)
		kind := kindOf(encoded)
		st.ByKind[kind]++

		if kind == "object" && encoded != tagObject {
			schemaKey, _, _ := strings.Cut(encoded[len(tagObject):], separator)
			schemas[schemaKey] = struct{}{}
		}
	}
	st.Schemas = len(schemas)
	return st
}

func kindOf(encoded string) string {
	switch {
	case strings.HasPrefix(encoded, tagBool):
		return "bool"
	case strings.HasPrefix(encoded, tagObject):
		return "object"
	case strings.HasPrefix(encoded, tagSpecial):
		return "special"
	case strings.HasPrefix(encoded, tagNumber):
		return "number"
	case strings.HasPrefix(encoded, tagArray):
		return "array"
	}
	return "string"
}

// Package countries merges the regional country-data files into one
// key-sorted mapping.
package countries

import (
	"encoding/json"
	"sort"
)

// Source is one decoded region file.
type Source struct {
	Name   string
	Values map[string]json.RawMessage
}

// Override records a key whose value was replaced by a later source.
type Override struct {
	Key      string
	Previous string
	Winner   string
}

// Mapping is the merged, key-sorted result.
type Mapping struct {
	Keys      []string
	Values    map[string]json.RawMessage
	Overrides []Override
}

// Merge unions sources in argument order. A key present in more than one
// source takes the value of the last source that has it. Keys are sorted
// in ascending byte order.
func Merge(sources ...Source) Mapping {
	merged := make(map[string]json.RawMessage)
	owner := make(map[string]string)
	var overrides []Override

	for _, src := range sources {
		// Sorted so overrides are reported in a stable order.
		keys := make([]string, 0, len(src.Values))
		for k := range src.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if prev, ok := owner[k]; ok {
				overrides = append(overrides, Override{Key: k, Previous: prev, Winner: src.Name})
			}
			merged[k] = src.Values[k]
			owner[k] = src.Name
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Mapping{
		Keys:      keys,
		Values:    merged,
		Overrides: overrides,
	}
}

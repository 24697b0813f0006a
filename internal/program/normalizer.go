package program

import (
	"encoding/json"

	"github.com/jyoon-lee/haruhealth/internal/weekday"
)

// Normalize repairs a raw weekly-program payload into canonical form.
//
// The generation step upstream is not reliable about shape: day keys arrive
// in Korean or English, one day's items are sometimes nested inside a
// sibling day's object instead of at the top level, and occasionally the
// payload is a single flat program with no day keys at all. Normalize
// accepts all of these and always returns a Weekly with exactly the seven
// canonical keys. Recommendation data is best-effort display content, so
// malformed input degrades to empty days rather than an error.
func Normalize(raw json.RawMessage) Weekly {
	week := NewWeekly()
	if len(raw) == 0 {
		return week
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		// Not an object. A bare array is a flat program for every day.
		if items, ok := decodeItems(raw); ok {
			replicate(week, items)
		}
		stampItemIDs(week)
		return week
	}

	hasDayKeys := false
	objects := make(map[weekday.Key]json.RawMessage)

	// Direct pass: day keys whose values already decode as item sequences.
	// Objects that themselves contain day keys are corrupted nestings and go
	// to the repair pass, even when their other fields look like an item.
	for rawKey, value := range top {
		day, err := weekday.Canonical(rawKey)
		if err != nil {
			continue
		}
		hasDayKeys = true
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(value, &nested); err == nil && hasNestedDayKey(nested) {
			objects[day] = value
			continue
		}
		if items, ok := decodeItems(value); ok && len(items) > 0 {
			week[day] = items
		}
	}

	// Repair pass: a day mapped to an object may hold a sibling day's items
	// nested one level deep. The nested array is that sibling's true data;
	// it never overrides data the sibling already had at the top level.
	for day, value := range objects {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(value, &nested); err != nil {
			continue
		}
		remainder := make(map[string]json.RawMessage)
		for nestedKey, nestedValue := range nested {
			nestedDay, err := weekday.Canonical(nestedKey)
			if err != nil {
				remainder[nestedKey] = nestedValue
				continue
			}
			if items, ok := decodeItems(nestedValue); ok && len(week[nestedDay]) == 0 {
				week[nestedDay] = items
			}
		}
		// Whatever is left of the object may describe the host day's own item.
		if len(week[day]) == 0 {
			if item, ok := decodeObjectItem(remainder); ok {
				week[day] = []Item{item}
			}
		}
	}

	// No day keys anywhere: a flat single program, replicated verbatim
	// across the week.
	if !hasDayKeys {
		if items, ok := decodeItems(raw); ok {
			replicate(week, items)
		}
	}

	stampItemIDs(week)
	return week
}

// NormalizeValue is Normalize for payloads already decoded into Go values.
func NormalizeValue(v any) Weekly {
	raw, err := json.Marshal(v)
	if err != nil {
		return NewWeekly()
	}
	return Normalize(raw)
}

func hasNestedDayKey(fields map[string]json.RawMessage) bool {
	for key := range fields {
		if weekday.Is(key) {
			return true
		}
	}
	return false
}

// decodeItems interprets raw as an ordered item sequence: either an array
// of items or a single named item. Entries without a name are dropped since
// the UI cannot address them.
func decodeItems(raw json.RawMessage) ([]Item, bool) {
	var items []Item
	if err := json.Unmarshal(raw, &items); err == nil {
		return named(items), true
	}
	var item Item
	if err := json.Unmarshal(raw, &item); err == nil && item.Name != "" {
		return []Item{item}, true
	}
	return nil, false
}

// decodeObjectItem re-encodes the leftover fields of a day object and tries
// to read them as one item.
func decodeObjectItem(fields map[string]json.RawMessage) (Item, bool) {
	if len(fields) == 0 {
		return Item{}, false
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return Item{}, false
	}
	var item Item
	if err := json.Unmarshal(raw, &item); err != nil || item.Name == "" {
		return Item{}, false
	}
	return item, true
}

func named(items []Item) []Item {
	kept := items[:0:len(items)]
	for _, item := range items {
		if item.Name != "" {
			kept = append(kept, item)
		}
	}
	return kept
}

func replicate(week Weekly, items []Item) {
	for _, day := range weekday.Keys() {
		copied := make([]Item, len(items))
		copy(copied, items)
		week[day] = copied
	}
}

// stampItemIDs assigns the deterministic identifier to every item. Existing
// ids are overwritten so normalization stays idempotent.
func stampItemIDs(week Weekly) {
	for _, day := range weekday.Keys() {
		items := week[day]
		for i := range items {
			items[i].ID = stableItemID(day, i, items[i].Name)
		}
	}
}

package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// reservedItems are conversational fillers the LLM occasionally echoes back
// as a "food". Records carrying one of these are rejected before persistence.
var reservedItems = map[string]struct{}{
	"hi":    {},
	"hello": {},
	"hey":   {},
}

// FoodItem is one resolved food record produced by the external normalizer.
// Numeric fields absent from the source JSON default to zero here, at the
// deserialization boundary, so aggregation can sum them unconditionally.
type FoodItem struct {
	Item      string     `json:"item"`
	Quantity  LooseFloat `json:"quantity"`
	Unit      string     `json:"unit"`
	TotalKcal LooseFloat `json:"total_kcal"`
	Protein   LooseFloat `json:"protein"`
	Carbs     LooseFloat `json:"carbs"`
	Fat       LooseFloat `json:"fat"`
}

// foodItemAlias avoids recursing into FoodItem.UnmarshalJSON.
type foodItemAlias FoodItem

type foodItemWire struct {
	foodItemAlias
	// Legacy field name for total_kcal, still present in older ledger files.
	Kcal LooseFloat `json:"kcal"`
}

// UnmarshalJSON decodes a food record, accepting the legacy "kcal" field as
// an alias for "total_kcal" when the latter is absent. Extra fields are
// ignored.
func (f *FoodItem) UnmarshalJSON(data []byte) error {
	var wire foodItemWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*f = FoodItem(wire.foodItemAlias)
	if f.TotalKcal == 0 {
		f.TotalKcal = wire.Kcal
	}
	return nil
}

// Rejected reports whether this record must not be persisted: the item name
// is empty or one of the reserved non-food tokens.
func (f *FoodItem) Rejected() bool {
	item := strings.TrimSpace(strings.ToLower(f.Item))
	if item == "" {
		return true
	}
	_, reserved := reservedItems[item]
	return reserved
}

// LooseFloat is a float64 that tolerates sloppy model output: JSON numbers,
// numeric strings, null, and absent fields all decode; anything non-numeric
// decodes to zero rather than failing the whole record.
type LooseFloat float64

func (v *LooseFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*v = 0
		return nil
	}
	*v = LooseFloat(parsed)
	return nil
}

func (v LooseFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(v))
}

// LedgerLine is one food record at its 1-based position within a user's day.
// Positions are stable only until a deletion shifts later lines down.
type LedgerLine struct {
	Position int      `json:"position"`
	Item     FoodItem `json:"item"`
}

// DayAggregate is the derived sum over all ledger lines of one (user, date)
// scope. It is computed on demand and never stored.
type DayAggregate struct {
	TotalKcal    float64      `json:"total_kcal"`
	TotalProtein float64      `json:"total_protein"`
	TotalCarbs   float64      `json:"total_carbs"`
	TotalFat     float64      `json:"total_fat"`
	Lines        []LedgerLine `json:"lines"`
}

// Add folds an item's macros into the running totals.
func (a *DayAggregate) Add(item FoodItem) {
	a.TotalKcal += float64(item.TotalKcal)
	a.TotalProtein += float64(item.Protein)
	a.TotalCarbs += float64(item.Carbs)
	a.TotalFat += float64(item.Fat)
}

// AddLine appends a ledger line, keeping its stored position, and folds its
// item into the totals.
func (a *DayAggregate) AddLine(line LedgerLine) {
	a.Lines = append(a.Lines, line)
	a.Add(line.Item)
}

package catalog

import (
	"strconv"
	"strings"
)

// Wire payloads for the three catalog endpoints. Ids and prices arrive as
// JSON strings on some endpoints and as numbers on others, so both go
// through the flexible types below.

// flexID decodes a catalog identifier regardless of whether the upstream
// quotes it.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	*id = flexID(strings.Trim(string(data), `"`))
	return nil
}

func (id flexID) String() string { return string(id) }

// flexPrice decodes a price the upstream emits either as a JSON number or
// as a quoted string ("2.69").
type flexPrice float64

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*p = flexPrice(f)
	return nil
}

type categoryListPayload struct {
	Results []categoryPayload `json:"results"`
}

type categoryPayload struct {
	ID         flexID            `json:"id"`
	Name       string            `json:"name"`
	Categories []categoryPayload `json:"categories"`
}

type categoryDetailPayload struct {
	ID         flexID                  `json:"id"`
	Name       string                  `json:"name"`
	Products   []productRefPayload     `json:"products"`
	Categories []categoryDetailPayload `json:"categories"`
}

type productRefPayload struct {
	ID flexID `json:"id"`
}

type productPayload struct {
	DisplayName       string `json:"display_name"`
	PriceInstructions struct {
		UnitPrice *flexPrice `json:"unit_price"`
		UnitSize  *flexPrice `json:"unit_size"`
	} `json:"price_instructions"`
}

// Snapshot is the price data fetched for one product at one point in time.
type Snapshot struct {
	// Name is the product display name; "unnamed" when the payload omits it.
	Name string

	// UnitPrice is the current unit price; 0 when the payload omits it.
	UnitPrice float64

	// UnitSize is nil when the payload omits it.
	UnitSize *float64
}

package domain

import (
	"encoding/json"
	"fmt"
)

// HalalStatus is the tri-state certification flag of a product
type HalalStatus int

const (
	// HalalUnknown means the product is not in the certification table
	HalalUnknown HalalStatus = iota
	// HalalCertified means the product carries a halal certificate
	HalalCertified
	// HalalNotCertified means the product is known to be non-halal
	HalalNotCertified
)

// String returns a human readable label for the status
func (s HalalStatus) String() string {
	switch s {
	case HalalCertified:
		return "Halal Certified"
	case HalalNotCertified:
		return "Not Halal Certified"
	default:
		return "Status Unknown"
	}
}

// Bool returns the status as a nullable boolean (nil when unknown)
func (s HalalStatus) Bool() *bool {
	switch s {
	case HalalCertified:
		v := true
		return &v
	case HalalNotCertified:
		v := false
		return &v
	default:
		return nil
	}
}

// HalalStatusFromBool converts a nullable boolean into a HalalStatus
func HalalStatusFromBool(b *bool) HalalStatus {
	if b == nil {
		return HalalUnknown
	}
	if *b {
		return HalalCertified
	}
	return HalalNotCertified
}

// MarshalJSON encodes the status as true, false or null
func (s HalalStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Bool())
}

// UnmarshalJSON decodes true, false or null into the status
func (s *HalalStatus) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("halal status must be true, false or null: %w", err)
	}
	*s = HalalStatusFromBool(b)
	return nil
}

// ProductRecord is a row of the halal certification table
type ProductRecord struct {
	Barcode     string      `json:"barcode"`
	Name        string      `json:"name"`
	Halal       HalalStatus `json:"halal"`
	Certificate string      `json:"certificate,omitempty"` // Only set when Halal == HalalCertified
}

// PriceRecord is a row of the price reference table
type PriceRecord struct {
	Barcode          string  `json:"barcode"`
	StorePrice       float64 `json:"storePrice"`
	MarketAvg        float64 `json:"marketAvg"`
	RecommendedPrice float64 `json:"recommendedPrice"`
}

// HasMarketData reports whether the record can be compared against the market
func (p PriceRecord) HasMarketData() bool {
	return p.MarketAvg > 0
}

// PriceDirection tells whether a store price sits above or below the market average
type PriceDirection string

const (
	PriceAbove PriceDirection = "Above"
	PriceBelow PriceDirection = "Below"
)

// PriceDeviation is the percentage distance between store price and market average
type PriceDeviation struct {
	Percent   float64        `json:"percent"`
	Direction PriceDirection `json:"direction"`
}

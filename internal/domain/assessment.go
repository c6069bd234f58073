package domain

import "time"

// DateLayout is the calendar date format used on the wire and in the cart
const DateLayout = "2006-01-02"

// ExpiryStatus classifies how close a product is to its expiry date
type ExpiryStatus string

const (
	ExpiryExpired      ExpiryStatus = "Expired"
	ExpiryExpiringSoon ExpiryStatus = "ExpiringSoon"
	ExpiryOkay         ExpiryStatus = "Okay"
)

// ExpiryAssessment is derived on demand from an expiry date and an evaluation date
type ExpiryAssessment struct {
	ExpiryDate    string       `json:"expiryDate"`
	DaysRemaining int          `json:"daysRemaining"`
	Status        ExpiryStatus `json:"status"`
}

// FreshnessCategory is the three-level verdict of the freshness heuristic
type FreshnessCategory string

const (
	FreshnessFresh    FreshnessCategory = "Fresh"
	FreshnessAverage  FreshnessCategory = "Average"
	FreshnessNotFresh FreshnessCategory = "Not Fresh"
)

// FreshnessAssessment is the score and category for one image
type FreshnessAssessment struct {
	Score           int               `json:"score"` // 0-100
	Category        FreshnessCategory `json:"category"`
	Grade           string            `json:"grade"`
	Recommendations []string          `json:"recommendations"`
}

// ImageStats holds aggregate pixel statistics of an image
type ImageStats struct {
	Channels   int     `json:"channels"`
	Brightness float64 `json:"brightness"` // Mean over all channel samples
	Contrast   float64 `json:"contrast"`   // Standard deviation over all channel samples
}

// DateFamily identifies which pattern family produced a date match
type DateFamily string

const (
	DateFamilyDayMonthYear DateFamily = "day-month-year"
	DateFamilyYearFirst    DateFamily = "year-first"
	DateFamilyMonthName    DateFamily = "month-name"
	DateFamilyLabel        DateFamily = "label"
)

// DateMatch is the normalized output of the date text extractor
type DateMatch struct {
	Value  string     `json:"value"`
	Family DateFamily `json:"family"`
}

// ProductScan combines every verdict for a single scanned product
type ProductScan struct {
	Product        ProductRecord     `json:"product"`
	Price          PriceRecord       `json:"price"`
	PriceAvailable bool              `json:"priceAvailable"`
	Deviation      *PriceDeviation   `json:"deviation,omitempty"`
	Expiry         *ExpiryAssessment `json:"expiry,omitempty"`
	ScannedAt      time.Time         `json:"scannedAt"`
}

package usecase

import (
	"fmt"
	"math"

	"github.com/groceryai/backend/internal/domain"
)

// PriceComparator looks up price records and compares them to the market average
type PriceComparator struct {
	catalog domain.PriceCatalog
}

// NewPriceComparator creates a comparator over a shared read-only catalog
func NewPriceComparator(catalog domain.PriceCatalog) *PriceComparator {
	return &PriceComparator{catalog: catalog}
}

// Compare returns the stored record, or an all-zero record meaning "no data"
func (c *PriceComparator) Compare(barcode string) domain.PriceRecord {
	if record, ok := c.catalog.LookupPrice(barcode); ok {
		return record
	}
	return domain.PriceRecord{Barcode: barcode}
}

// Deviation computes |store - market| / market * 100.
// A record without a market average yields ErrNoMarketData.
func (c *PriceComparator) Deviation(record domain.PriceRecord) (domain.PriceDeviation, error) {
	if !record.HasMarketData() {
		return domain.PriceDeviation{}, fmt.Errorf("%w: barcode %s", domain.ErrNoMarketData, record.Barcode)
	}

	direction := domain.PriceBelow
	if record.StorePrice > record.MarketAvg {
		direction = domain.PriceAbove
	}

	return domain.PriceDeviation{
		Percent:   math.Abs(record.StorePrice-record.MarketAvg) / record.MarketAvg * 100,
		Direction: direction,
	}, nil
}

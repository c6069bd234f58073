package referencedata

import (
	"fmt"
	"math"

	"github.com/groceryai/backend/internal/domain"
)

// mapProduct converts a YAML row into a ProductRecord and checks its invariants
func mapProduct(row productRow) (domain.ProductRecord, error) {
	if err := domain.ValidateBarcode(row.Barcode); err != nil {
		return domain.ProductRecord{}, fmt.Errorf("barcode %q: %w", row.Barcode, err)
	}
	if row.Name == "" {
		return domain.ProductRecord{}, fmt.Errorf("barcode %s: name is required", row.Barcode)
	}

	status := domain.HalalStatusFromBool(row.Halal)
	if row.Certificate != "" && status != domain.HalalCertified {
		return domain.ProductRecord{}, fmt.Errorf("barcode %s: certificate set on a product that is not halal certified", row.Barcode)
	}

	return domain.ProductRecord{
		Barcode:     row.Barcode,
		Name:        row.Name,
		Halal:       status,
		Certificate: row.Certificate,
	}, nil
}

// mapPrice converts a YAML row into a PriceRecord and checks its invariants
func mapPrice(row priceRow) (domain.PriceRecord, error) {
	if err := domain.ValidateBarcode(row.Barcode); err != nil {
		return domain.PriceRecord{}, fmt.Errorf("barcode %q: %w", row.Barcode, err)
	}
	for _, price := range []float64{row.StorePrice, row.MarketAvg, row.RecommendedPrice} {
		if math.IsNaN(price) || math.IsInf(price, 0) {
			return domain.PriceRecord{}, fmt.Errorf("barcode %s: prices must be finite numbers", row.Barcode)
		}
		if price < 0 {
			return domain.PriceRecord{}, fmt.Errorf("barcode %s: prices must be non-negative", row.Barcode)
		}
	}

	return domain.PriceRecord{
		Barcode:          row.Barcode,
		StorePrice:       row.StorePrice,
		MarketAvg:        row.MarketAvg,
		RecommendedPrice: row.RecommendedPrice,
	}, nil
}

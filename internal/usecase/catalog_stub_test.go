package usecase

import "github.com/groceryai/backend/internal/domain"

type stubCatalog struct {
	products map[string]domain.ProductRecord
	prices   map[string]domain.PriceRecord
}

func (s stubCatalog) LookupProduct(barcode string) (domain.ProductRecord, bool) {
	r, ok := s.products[barcode]
	return r, ok
}

func (s stubCatalog) LookupPrice(barcode string) (domain.PriceRecord, bool) {
	r, ok := s.prices[barcode]
	return r, ok
}

// newStubCatalog mirrors part of the embedded reference tables
func newStubCatalog() stubCatalog {
	return stubCatalog{
		products: map[string]domain.ProductRecord{
			"8801234567890": {Barcode: "8801234567890", Name: "Al Safa Chicken Sausages", Halal: domain.HalalCertified, Certificate: "JAKIM"},
			"8801234567893": {Barcode: "8801234567893", Name: "Haribo Gummy Bears", Halal: domain.HalalNotCertified},
			"8801234567894": {Barcode: "8801234567894", Name: "Farm Fresh Milk", Halal: domain.HalalCertified, Certificate: "JAKIM"},
		},
		prices: map[string]domain.PriceRecord{
			"8801234567890": {Barcode: "8801234567890", StorePrice: 25.90, MarketAvg: 24.50, RecommendedPrice: 23.99},
			"8801234567893": {Barcode: "8801234567893", StorePrice: 8.90, MarketAvg: 8.50, RecommendedPrice: 8.00},
			"8801234567894": {Barcode: "8801234567894", StorePrice: 12.50, MarketAvg: 11.90, RecommendedPrice: 11.50},
			"8801234567899": {Barcode: "8801234567899", StorePrice: 5.00, MarketAvg: 0, RecommendedPrice: 0},
		},
	}
}

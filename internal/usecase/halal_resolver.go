package usecase

import "github.com/groceryai/backend/internal/domain"

// UnknownProductName is the name reported for barcodes missing from the table
const UnknownProductName = "Unknown"

// HalalStatusResolver looks up certification records by exact barcode
type HalalStatusResolver struct {
	catalog domain.ProductCatalog
}

// NewHalalStatusResolver creates a resolver over a shared read-only catalog
func NewHalalStatusResolver(catalog domain.ProductCatalog) *HalalStatusResolver {
	return &HalalStatusResolver{catalog: catalog}
}

// Resolve returns the stored record, or an unknown sentinel on a miss
func (r *HalalStatusResolver) Resolve(barcode string) domain.ProductRecord {
	if record, ok := r.catalog.LookupProduct(barcode); ok {
		return record
	}
	return domain.ProductRecord{
		Barcode: barcode,
		Name:    UnknownProductName,
		Halal:   domain.HalalUnknown,
	}
}

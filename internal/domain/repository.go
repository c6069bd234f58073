package domain

import (
	"context"
	"time"
)

// ProductCatalog is the read-only halal certification table
type ProductCatalog interface {
	LookupProduct(barcode string) (ProductRecord, bool)
}

// PriceCatalog is the read-only price reference table
type PriceCatalog interface {
	LookupPrice(barcode string) (PriceRecord, bool)
}

// CartRepository stores one cart per session
type CartRepository interface {
	Get(ctx context.Context, id string) (*Cart, error)
	Save(ctx context.Context, cart *Cart, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

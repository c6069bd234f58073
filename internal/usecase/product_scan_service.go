package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/groceryai/backend/internal/domain"
)

// ProductScanService combines the halal, price and expiry verdicts for one barcode
type ProductScanService struct {
	resolver   *HalalStatusResolver
	comparator *PriceComparator
	assessor   *ExpiryAssessor
}

// NewProductScanService creates a scan service from its decision components
func NewProductScanService(
	resolver *HalalStatusResolver,
	comparator *PriceComparator,
	assessor *ExpiryAssessor,
) *ProductScanService {
	return &ProductScanService{
		resolver:   resolver,
		comparator: comparator,
		assessor:   assessor,
	}
}

// Scan evaluates a barcode. expiry may be nil when no date is known.
func (s *ProductScanService) Scan(
	ctx context.Context,
	barcode string,
	expiry *time.Time,
	now time.Time,
) (*domain.ProductScan, error) {
	if err := domain.ValidateBarcode(barcode); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scan := &domain.ProductScan{
		Product:   s.resolver.Resolve(barcode),
		Price:     s.comparator.Compare(barcode),
		ScannedAt: now,
	}

	deviation, err := s.comparator.Deviation(scan.Price)
	switch {
	case err == nil:
		scan.PriceAvailable = true
		scan.Deviation = &deviation
	case errors.Is(err, domain.ErrNoMarketData):
		log.Printf("[SCAN] No market data for %s", barcode)
	default:
		return nil, err
	}

	if expiry != nil {
		assessment := s.assessor.Assess(*expiry, now)
		scan.Expiry = &assessment
	}

	return scan, nil
}

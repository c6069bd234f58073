// Package referencedata loads the static halal and price tables served to the decision layer.
package referencedata

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/groceryai/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var defaultReference []byte

// document is the YAML layout of a reference file
type document struct {
	Products []productRow `yaml:"products"`
	Prices   []priceRow   `yaml:"prices"`
}

type productRow struct {
	Barcode     string `yaml:"barcode"`
	Name        string `yaml:"name"`
	Halal       *bool  `yaml:"halal"`
	Certificate string `yaml:"certificate"`
}

type priceRow struct {
	Barcode          string  `yaml:"barcode"`
	StorePrice       float64 `yaml:"store_price"`
	MarketAvg        float64 `yaml:"market_avg"`
	RecommendedPrice float64 `yaml:"recommended_price"`
}

// Tables holds the read-only reference data. It is never mutated after Load.
type Tables struct {
	products map[string]domain.ProductRecord
	prices   map[string]domain.PriceRecord
}

// LoadDefault loads the embedded reference tables
func LoadDefault() (*Tables, error) {
	return Parse(bytes.NewReader(defaultReference))
}

// Load reads reference tables from path, or the embedded tables when path is empty
func Load(path string) (*Tables, error) {
	if path == "" {
		return LoadDefault()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference data: %w", err)
	}
	defer f.Close()

	tables, err := Parse(f)
	if err != nil {
		return nil, err
	}
	log.Printf("[REFERENCE] Loaded %d products and %d prices from %s", len(tables.products), len(tables.prices), path)
	return tables, nil
}

// Parse decodes and validates a YAML reference document
func Parse(r io.Reader) (*Tables, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidReferenceData, err)
	}

	tables := &Tables{
		products: make(map[string]domain.ProductRecord, len(doc.Products)),
		prices:   make(map[string]domain.PriceRecord, len(doc.Prices)),
	}

	for i, row := range doc.Products {
		record, err := mapProduct(row)
		if err != nil {
			return nil, fmt.Errorf("%w: products[%d]: %v", domain.ErrInvalidReferenceData, i, err)
		}
		if _, dup := tables.products[record.Barcode]; dup {
			return nil, fmt.Errorf("%w: products[%d]: duplicate barcode %s", domain.ErrInvalidReferenceData, i, record.Barcode)
		}
		tables.products[record.Barcode] = record
	}

	for i, row := range doc.Prices {
		record, err := mapPrice(row)
		if err != nil {
			return nil, fmt.Errorf("%w: prices[%d]: %v", domain.ErrInvalidReferenceData, i, err)
		}
		if _, dup := tables.prices[record.Barcode]; dup {
			return nil, fmt.Errorf("%w: prices[%d]: duplicate barcode %s", domain.ErrInvalidReferenceData, i, record.Barcode)
		}
		tables.prices[record.Barcode] = record
	}

	return tables, nil
}

// LookupProduct implements domain.ProductCatalog
func (t *Tables) LookupProduct(barcode string) (domain.ProductRecord, bool) {
	record, ok := t.products[barcode]
	return record, ok
}

// LookupPrice implements domain.PriceCatalog
func (t *Tables) LookupPrice(barcode string) (domain.PriceRecord, bool) {
	record, ok := t.prices[barcode]
	return record, ok
}

// Len returns the number of product and price rows
func (t *Tables) Len() (products, prices int) {
	return len(t.products), len(t.prices)
}

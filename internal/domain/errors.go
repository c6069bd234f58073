package domain

import "errors"

var (
	// ErrNoMarketData is returned when a deviation is requested for a record without a market average
	ErrNoMarketData = errors.New("no market data for price comparison")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidBarcode is returned when a barcode is not a 13-digit numeric code
	ErrInvalidBarcode = errors.New("barcode must be 13 digits")

	// ErrUnsupportedImage is returned when an uploaded image cannot be decoded
	ErrUnsupportedImage = errors.New("unsupported image format")

	// ErrImageTooLarge is returned when an image's decoded size exceeds the pixel limit
	ErrImageTooLarge = errors.New("image dimensions too large")

	// ErrCartNotFound is returned when a session has no cart (unknown or expired)
	ErrCartNotFound = errors.New("cart not found")

	// ErrItemIndexOutOfRange is returned when removing an item that does not exist
	ErrItemIndexOutOfRange = errors.New("cart item index out of range")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidReferenceData is returned when the reference tables fail validation
	ErrInvalidReferenceData = errors.New("invalid reference data")

	// ErrCartStoreUnavailable is returned when the cart store cannot be reached
	ErrCartStoreUnavailable = errors.New("cart store unavailable")
)

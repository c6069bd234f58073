package domain

// BarcodeLength is the length of the EAN-13 product codes used as table keys
const BarcodeLength = 13

// ValidateBarcode checks that s is a 13-digit numeric code
func ValidateBarcode(s string) error {
	if len(s) != BarcodeLength {
		return ErrInvalidBarcode
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ErrInvalidBarcode
		}
	}
	return nil
}

package enums

import (
	"fmt"
	"strings"
)

// SizeTier classifies wholesale lots by barrel size.
type SizeTier string

const (
	SizeTierSmall  SizeTier = "SMALL"
	SizeTierMedium SizeTier = "MEDIUM"
	SizeTierLarge  SizeTier = "LARGE"
)

var validSizeTiers = []SizeTier{
	SizeTierSmall,
	SizeTierMedium,
	SizeTierLarge,
}

// IsValid reports whether the value matches a known size tier.
func (s SizeTier) IsValid() bool {
	for _, candidate := range validSizeTiers {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSizeTier converts raw input into SizeTier.
func ParseSizeTier(value string) (SizeTier, error) {
	normalized := SizeTier(strings.ToUpper(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid size tier %q", value)
}

// SizeTierFromSKU derives the tier from wholesale SKUs such as SMALL_RED_BARREL.
func SizeTierFromSKU(sku string) (SizeTier, error) {
	prefix, _, found := strings.Cut(strings.ToUpper(strings.TrimSpace(sku)), "_")
	if !found {
		return "", fmt.Errorf("sku %q has no size prefix", sku)
	}
	return ParseSizeTier(prefix)
}

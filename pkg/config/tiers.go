package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// splitOrder fixes the position of each size tier inside a split=a/b/c value.
var splitOrder = []enums.SizeTier{enums.SizeTierSmall, enums.SizeTierMedium, enums.SizeTierLarge}

// GoldTier is one band of the procurement gold ladder. It is decoded from
//
//	max_gold=500;reserve=0;spend=1;order=SMALL|MEDIUM|LARGE;split=1/0/0
//
// where max_gold=0 marks the unbounded top band and split lists the
// SMALL/MEDIUM/LARGE budget shares.
type GoldTier struct {
	MaxGold       int
	Reserve       int
	SpendFraction decimal.Decimal
	Order         []enums.SizeTier
	Split         map[enums.SizeTier]decimal.Decimal
}

// Decode implements envconfig.Decoder.
func (t *GoldTier) Decode(value string) error {
	parsed := GoldTier{Split: map[enums.SizeTier]decimal.Decimal{}}
	seen := map[string]bool{}
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, raw, ok := strings.Cut(part, "=")
		if !ok {
			return fmt.Errorf("gold tier: malformed segment %q", part)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		raw = strings.TrimSpace(raw)
		seen[key] = true
		switch key {
		case "max_gold":
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return fmt.Errorf("gold tier: invalid max_gold %q", raw)
			}
			parsed.MaxGold = n
		case "reserve":
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return fmt.Errorf("gold tier: invalid reserve %q", raw)
			}
			parsed.Reserve = n
		case "spend":
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return fmt.Errorf("gold tier: invalid spend %q: %w", raw, err)
			}
			parsed.SpendFraction = d
		case "order":
			for _, name := range strings.Split(raw, "|") {
				size, err := enums.ParseSizeTier(name)
				if err != nil {
					return fmt.Errorf("gold tier: %w", err)
				}
				parsed.Order = append(parsed.Order, size)
			}
		case "split":
			shares := strings.Split(raw, "/")
			if len(shares) != len(splitOrder) {
				return fmt.Errorf("gold tier: split %q needs %d shares", raw, len(splitOrder))
			}
			for i, share := range shares {
				d, err := decimal.NewFromString(strings.TrimSpace(share))
				if err != nil {
					return fmt.Errorf("gold tier: invalid split share %q: %w", share, err)
				}
				parsed.Split[splitOrder[i]] = d
			}
		default:
			return fmt.Errorf("gold tier: unknown key %q", key)
		}
	}
	for _, required := range []string{"max_gold", "spend", "order", "split"} {
		if !seen[required] {
			return fmt.Errorf("gold tier: missing %s", required)
		}
	}
	*t = parsed
	return nil
}

// Contains reports whether the gold balance falls inside this band.
func (t GoldTier) Contains(gold int) bool {
	return t.MaxGold == 0 || gold < t.MaxGold
}

// Share returns the fraction of spend assigned to the size tier.
func (t GoldTier) Share(size enums.SizeTier) decimal.Decimal {
	if share, ok := t.Split[size]; ok {
		return share
	}
	return decimal.Zero
}

func (t GoldTier) validate() error {
	if !isFraction(t.SpendFraction) {
		return fmt.Errorf("spend fraction %s outside [0,1]", t.SpendFraction)
	}
	if len(t.Order) == 0 {
		return fmt.Errorf("size tier order is empty")
	}
	seen := map[enums.SizeTier]bool{}
	for _, size := range t.Order {
		if seen[size] {
			return fmt.Errorf("size tier %s listed twice", size)
		}
		seen[size] = true
	}
	total := decimal.Zero
	for size, share := range t.Split {
		if share.IsNegative() {
			return fmt.Errorf("negative split share for %s", size)
		}
		total = total.Add(share)
	}
	if total.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("split shares sum to %s, must be at most 1", total)
	}
	return nil
}

func validateTiers(tiers []GoldTier) error {
	prev := 0
	for i, tier := range tiers {
		if err := tier.validate(); err != nil {
			return fmt.Errorf("gold tier %d: %w", i, err)
		}
		last := i == len(tiers)-1
		switch {
		case last && tier.MaxGold != 0:
			return fmt.Errorf("gold tier %d: top tier must be unbounded (max_gold=0)", i)
		case !last && tier.MaxGold <= prev:
			return fmt.Errorf("gold tier %d: max_gold %d must exceed %d", i, tier.MaxGold, prev)
		}
		prev = tier.MaxGold
	}
	return nil
}

package domain

import "strings"

// RarityTier represents the rarity class of a gacha item
type RarityTier string

const (
	RarityCommon    RarityTier = "COMMON"
	RarityUncommon  RarityTier = "UNCOMMON"
	RarityRare      RarityTier = "RARE"
	RarityEpic      RarityTier = "EPIC"
	RarityLegendary RarityTier = "LEGENDARY"
)

// AllRarities returns every defined tier ordered from most to least common.
// Selection code iterates this slice, so the order is part of the draw contract.
func AllRarities() []RarityTier {
	return []RarityTier{
		RarityCommon,
		RarityUncommon,
		RarityRare,
		RarityEpic,
		RarityLegendary,
	}
}

// RarityCount is the number of defined rarity tiers
const RarityCount = 5

// ParseRarity normalizes a string to a RarityTier, reporting whether it matched
func ParseRarity(s string) (RarityTier, bool) {
	switch RarityTier(strings.ToUpper(strings.TrimSpace(s))) {
	case RarityCommon:
		return RarityCommon, true
	case RarityUncommon:
		return RarityUncommon, true
	case RarityRare:
		return RarityRare, true
	case RarityEpic:
		return RarityEpic, true
	case RarityLegendary:
		return RarityLegendary, true
	}
	return "", false
}

// Valid reports whether the tier is one of the defined values
func (r RarityTier) Valid() bool {
	_, ok := ParseRarity(string(r))
	return ok
}

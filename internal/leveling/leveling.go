package leveling

import "math"

// Tier is a display bracket derived from level
type Tier string

const (
	TierNovice     Tier = "Novice"
	TierApprentice Tier = "Apprentice"
	TierJourneyman Tier = "Journeyman"
	TierExpert     Tier = "Expert"
	TierMaster     Tier = "Master"
)

// maxLevel caps the XP curve; beyond this the requirement is effectively infinite
const maxLevel = 1000

// XPForLevel returns the XP needed to advance from the given level to the next.
// Formula: floor(500 * log2(level + 1))
func XPForLevel(level int) int {
	if level > maxLevel {
		return math.MaxInt
	}
	return int(math.Floor(500 * math.Log2(float64(level+1))))
}

// TotalXPForLevel returns the cumulative XP required to reach a level from level 1
func TotalXPForLevel(targetLevel int) int {
	total := 0
	for l := 1; l < targetLevel; l++ {
		total += XPForLevel(l)
	}
	return total
}

// LevelFromXP determines the current level from total accumulated XP
func LevelFromXP(totalXP int) int {
	level := 1
	accumulated := 0
	for {
		needed := XPForLevel(level)
		if accumulated+needed > totalXP {
			break
		}
		accumulated += needed
		level++
	}
	return level
}

// CurrencyMultiplier returns the level-derived cost/reward multiplier.
// Formula: 1 + level * 0.05
func CurrencyMultiplier(level int) float64 {
	return 1 + float64(level)*0.05
}

// TierForLevel returns the display tier for a level
func TierForLevel(level int) Tier {
	switch {
	case level >= 81:
		return TierMaster
	case level >= 51:
		return TierExpert
	case level >= 26:
		return TierJourneyman
	case level >= 11:
		return TierApprentice
	default:
		return TierNovice
	}
}

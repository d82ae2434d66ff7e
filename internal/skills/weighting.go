package skills

import "github.com/mentorque/Extension-Free-backend/internal/types"

const (
	boostPerMention = 0.5
	maxBoost        = 2.0

	importantFallbackWeight = 2.0
	defaultFallbackWeight   = 1.0
)

// FrequencyBoost adds 0.5 per repeated mention to weight, capped at +2.0.
func FrequencyBoost(weight float64, frequency int) float64 {
	if frequency <= 1 {
		return weight
	}
	return weight + min(float64(frequency-1)*boostPerMention, maxBoost)
}

// FallbackWeight is the weight of a skill with no catalogued weight:
// framework level for Important-tier phrases, tool level otherwise.
func FallbackWeight(tier types.Tier, classifierAvailable bool) float64 {
	if classifierAvailable && tier == types.TierImportant {
		return importantFallbackWeight
	}
	return defaultFallbackWeight
}

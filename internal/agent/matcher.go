package agent

import (
	"math"
	"strings"
)

// Scoring weights. Each weight only enters the denominator when the user
// actually stated that criterion, so unstated criteria never penalize.
const (
	weightCity            = 0.30
	weightBedroomsExact   = 0.25
	weightBedroomsAdj     = 0.15
	weightBudgetInBounds  = 0.30
	weightBudgetNearBound = 0.20
	weightPropertyType    = 0.15

	defaultScoreNoCriteria = 0.5
)

// MatchScore rates how well a candidate satisfies stated preferences,
// as achieved/applicable weight rounded to 2 decimals. With no stated
// criteria every candidate scores 0.5.
func MatchScore(candidate PropertyResult, prefs Preferences) float64 {
	var score, maxScore float64

	if prefs.City != "" {
		maxScore += weightCity
		if containsFold(candidate.City, prefs.City) {
			score += weightCity
		}
	}

	if prefs.Bedrooms != nil {
		maxScore += weightBedroomsExact
		if candidate.Bedrooms != nil {
			switch diff := abs(*candidate.Bedrooms - *prefs.Bedrooms); diff {
			case 0:
				score += weightBedroomsExact
			case 1:
				score += weightBedroomsAdj
			}
		}
	}

	if prefs.HasBudget() {
		maxScore += weightBudgetInBounds
		if candidate.PriceUSD != nil {
			price := *candidate.PriceUSD
			budgetMin := 0.0
			if prefs.BudgetMin != nil {
				budgetMin = *prefs.BudgetMin
			}
			budgetMax := math.Inf(1)
			if prefs.BudgetMax != nil {
				budgetMax = *prefs.BudgetMax
			}
			switch {
			case budgetMin <= price && price <= budgetMax:
				score += weightBudgetInBounds
			case price <= budgetMax*1.1:
				score += weightBudgetNearBound
			}
		}
	}

	if prefs.PropertyType != "" {
		maxScore += weightPropertyType
		if strings.EqualFold(candidate.PropertyType, prefs.PropertyType) {
			score += weightPropertyType
		}
	}

	if maxScore == 0 {
		return defaultScoreNoCriteria
	}
	return math.Round(score/maxScore*100) / 100
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

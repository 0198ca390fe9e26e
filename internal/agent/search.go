package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/silverland/property-agent/internal/cache"
	"github.com/silverland/property-agent/internal/catalog"
)

const (
	searchRawCap         = 20
	searchStoredCap      = 10
	searchRecommendedCap = 5
	searchFallbackFloor  = 3
	nlFallbackScore      = 0.7
	descriptionTrunc     = 300
)

// buildCriteria translates preferences into catalog filters with the
// standing tolerances: bedrooms ±1 is handled by the catalog, budget
// bounds widen by 20% in each direction here.
func buildCriteria(prefs Preferences) catalog.Criteria {
	criteria := catalog.Criteria{
		City:             prefs.City,
		Country:          prefs.Country,
		Bedrooms:         prefs.Bedrooms,
		PropertyType:     prefs.PropertyType,
		CompletionStatus: prefs.CompletionStatus,
		Limit:            searchRawCap,
	}
	if prefs.BudgetMin != nil {
		min := *prefs.BudgetMin * 0.8
		criteria.PriceMin = &min
	}
	if prefs.BudgetMax != nil {
		max := *prefs.BudgetMax * 1.2
		criteria.PriceMax = &max
	}
	return criteria
}

// searchProperties runs the structured catalog search, falls back to the
// natural-language path when results are thin, scores and ranks.
func (e *Engine) searchProperties(ctx context.Context, state *ConversationState) {
	state.CurrentNode = NodeSearchProperties
	state.RecordTool("property_search")

	prefs := state.Preferences
	var results []PropertyResult

	cacheKey := e.searchCacheKey(prefs)
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, cacheKey); ok {
			var cachedResults []PropertyResult
			if err := json.Unmarshal([]byte(cached), &cachedResults); err == nil {
				e.metrics.ObserveCacheLookup(cache.NamespacePropertySearch, true)
				e.storeResults(state, cachedResults)
				return
			}
		}
		e.metrics.ObserveCacheLookup(cache.NamespacePropertySearch, false)
	}

	properties, err := e.catalog.Filter(ctx, buildCriteria(prefs))
	if err != nil {
		e.logger.Error("catalog search failed", "error", err)
	} else {
		for _, prop := range properties {
			results = append(results, toPropertyResult(prop, prefs))
		}
		e.logger.Info("catalog search completed", "results", len(results))
	}

	if len(results) < searchFallbackFloor && e.nlSearcher != nil {
		nlQuery := buildNaturalLanguageQuery(prefs, state.LastUserMessage())
		e.logger.Info("trying natural language search", "query", nlQuery)

		nlResults, nlErr := e.nlSearcher.Search(ctx, nlQuery, searchRawCap)
		if nlErr != nil {
			e.logger.Warn("natural language search failed", "error", nlErr)
		} else if len(nlResults) > 0 {
			state.RecordTool("nl_search")
			seen := make(map[int64]struct{}, len(results))
			for _, r := range results {
				seen[r.ID] = struct{}{}
			}
			for _, prop := range nlResults {
				if _, dup := seen[prop.ID]; dup {
					continue
				}
				seen[prop.ID] = struct{}{}
				result := toPropertyResult(prop, prefs)
				if !hasActiveCriteria(prefs) {
					result.MatchScore = nlFallbackScore
				}
				results = append(results, result)
			}
		}
	}

	// Stable sort keeps discovery order on score ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	if e.cache != nil && len(results) > 0 {
		if encoded, err := json.Marshal(results); err == nil {
			e.cache.Set(ctx, cacheKey, string(encoded), e.searchCacheTTL)
		}
	}

	e.metrics.ObserveSearchResults(len(results))
	if len(results) == 0 {
		e.logger.Warn("no properties found", "preferences", marshalJSON(prefs))
	}
	e.storeResults(state, results)
}

func (e *Engine) storeResults(state *ConversationState, results []PropertyResult) {
	if len(results) > searchStoredCap {
		results = results[:searchStoredCap]
	}
	state.SearchResults = results

	recommended := make([]int64, 0, searchRecommendedCap)
	for _, r := range results {
		if len(recommended) == searchRecommendedCap {
			break
		}
		recommended = append(recommended, r.ID)
	}
	state.RecommendedProjects = recommended
}

func (e *Engine) searchCacheKey(prefs Preferences) string {
	params := map[string]string{
		"city":              cache.NormalizeText(prefs.City),
		"country":           cache.NormalizeText(prefs.Country),
		"property_type":     prefs.PropertyType,
		"completion_status": prefs.CompletionStatus,
	}
	if prefs.Bedrooms != nil {
		params["bedrooms"] = strconv.Itoa(*prefs.Bedrooms)
	}
	if prefs.BudgetMin != nil {
		params["budget_min"] = strconv.FormatFloat(*prefs.BudgetMin, 'f', -1, 64)
	}
	if prefs.BudgetMax != nil {
		params["budget_max"] = strconv.FormatFloat(*prefs.BudgetMax, 'f', -1, 64)
	}
	return cache.Key(cache.NamespacePropertySearch, params)
}

func toPropertyResult(prop catalog.Property, prefs Preferences) PropertyResult {
	description := truncateRunes(prop.Description, descriptionTrunc)
	result := PropertyResult{
		ID:               prop.ID,
		ProjectName:      prop.ProjectName,
		City:             prop.City,
		Country:          prop.Country,
		PropertyType:     prop.PropertyType,
		Bedrooms:         prop.Bedrooms,
		Bathrooms:        prop.Bathrooms,
		PriceUSD:         prop.PriceUSD,
		AreaSqm:          prop.AreaSqm,
		CompletionStatus: prop.CompletionStatus,
		Features:         prop.Features,
		Facilities:       prop.Facilities,
		Description:      description,
	}
	result.MatchScore = MatchScore(result, prefs)
	return result
}

func hasActiveCriteria(prefs Preferences) bool {
	return prefs.City != "" || prefs.Country != "" || prefs.Bedrooms != nil ||
		prefs.Bathrooms != nil || prefs.HasBudget() || prefs.PropertyType != "" ||
		prefs.CompletionStatus != "" || len(prefs.Features) > 0
}

// buildNaturalLanguageQuery renders preferences as a compact request
// like "2-bedroom apartment in Dubai under $500,000".
func buildNaturalLanguageQuery(prefs Preferences, userMessage string) string {
	var parts []string

	if prefs.Bedrooms != nil {
		parts = append(parts, fmt.Sprintf("%d-bedroom", *prefs.Bedrooms))
	}
	if prefs.PropertyType != "" {
		parts = append(parts, prefs.PropertyType)
	} else {
		parts = append(parts, "property")
	}
	if prefs.City != "" {
		parts = append(parts, "in "+prefs.City)
	}
	if prefs.BudgetMax != nil {
		parts = append(parts, fmt.Sprintf("under $%s", formatAmount(*prefs.BudgetMax)))
	} else if prefs.BudgetMin != nil {
		parts = append(parts, fmt.Sprintf("over $%s", formatAmount(*prefs.BudgetMin)))
	}
	if prefs.CompletionStatus != "" {
		parts = append(parts, "("+prefs.CompletionStatus+")")
	}

	if len(parts) == 1 && prefs.City == "" {
		return userMessage
	}
	return strings.Join(parts, " ")
}

// formatAmount renders a dollar amount with thousands separators.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

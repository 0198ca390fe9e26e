package agent

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyMessage is returned when an incoming message is empty after
// sanitization.
var ErrEmptyMessage = errors.New("agent: message is empty")

const (
	maxMessageLength = 5000
	maxCityLength    = 100
	maxNameLength    = 100
	maxPhoneLength   = 50
	maxFeatures      = 20
	maxRoomCount     = 20
	maxBudget        = 1_000_000_000
	minPhoneDigits   = 7
)

var (
	locationCharPattern = regexp.MustCompile(`[^\w\s\-]`)
	nameCharPattern     = regexp.MustCompile(`[^\w\s\-']`)
	emailShapePattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneCharPattern    = regexp.MustCompile(`[^\d\+\-\(\)\s]`)
	nonDigitPattern     = regexp.MustCompile(`\D`)
)

var validPropertyTypes = map[string]struct{}{
	"apartment": {}, "villa": {}, "townhouse": {}, "penthouse": {}, "studio": {}, "duplex": {},
}

var validCompletionStatuses = map[string]struct{}{
	"ready": {}, "available": {}, "off_plan": {}, "under_construction": {}, "completed": {},
}

// ValidateMessage sanitizes an incoming user message: strips null bytes,
// collapses whitespace, caps the length. Empty after cleanup is an error.
func ValidateMessage(content string) (string, error) {
	content = strings.ReplaceAll(content, "\x00", "")
	content = strings.Join(strings.Fields(content), " ")
	if content == "" {
		return "", ErrEmptyMessage
	}
	if len(content) > maxMessageLength {
		content = content[:maxMessageLength]
	}
	return content, nil
}

// SanitizePreferences clamps and drops invalid values. It never errors;
// a value that cannot be repaired is removed.
func SanitizePreferences(p Preferences) Preferences {
	p.City = sanitizeLocation(p.City, maxCityLength)
	p.Country = strings.ToUpper(sanitizeLocation(p.Country, 2))

	p.Bedrooms = clampCount(p.Bedrooms)
	p.Bathrooms = clampCount(p.Bathrooms)
	p.BudgetMin = clampBudget(p.BudgetMin)
	p.BudgetMax = clampBudget(p.BudgetMax)

	p.PropertyType = strings.ToLower(strings.TrimSpace(p.PropertyType))
	if _, ok := validPropertyTypes[p.PropertyType]; !ok {
		p.PropertyType = ""
	}

	p.CompletionStatus = strings.ToLower(strings.TrimSpace(p.CompletionStatus))
	if _, ok := validCompletionStatuses[p.CompletionStatus]; !ok {
		p.CompletionStatus = ""
	}

	if len(p.Features) > maxFeatures {
		p.Features = p.Features[:maxFeatures]
	}
	cleaned := p.Features[:0]
	for _, f := range p.Features {
		f = strings.TrimSpace(f)
		if f != "" {
			cleaned = append(cleaned, f)
		}
	}
	p.Features = cleaned

	return p
}

// SanitizeLeadData cleans contact fields. Invalid emails and short phone
// numbers are dropped to empty rather than surfaced as errors.
func SanitizeLeadData(d LeadData) LeadData {
	d.FirstName = sanitizeName(d.FirstName)
	d.LastName = sanitizeName(d.LastName)
	d.Email = SanitizeEmail(d.Email)
	d.Phone = sanitizePhone(d.Phone)
	return d
}

// SanitizeEmail lowercases an RFC-shaped email, or returns "" when the
// value does not look like an email at all.
func SanitizeEmail(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || !emailShapePattern.MatchString(v) {
		return ""
	}
	return strings.ToLower(v)
}

func sanitizeLocation(v string, maxLen int) string {
	v = locationCharPattern.ReplaceAllString(v, "")
	v = strings.TrimSpace(v)
	if len(v) > maxLen {
		v = v[:maxLen]
	}
	return v
}

func sanitizeName(v string) string {
	v = nameCharPattern.ReplaceAllString(v, "")
	v = strings.TrimSpace(v)
	if len(v) > maxNameLength {
		v = v[:maxNameLength]
	}
	return v
}

func sanitizePhone(v string) string {
	v = phoneCharPattern.ReplaceAllString(v, "")
	digits := nonDigitPattern.ReplaceAllString(v, "")
	if len(digits) < minPhoneDigits {
		return ""
	}
	v = strings.TrimSpace(v)
	if len(v) > maxPhoneLength {
		v = v[:maxPhoneLength]
	}
	return v
}

func clampCount(v *int) *int {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > maxRoomCount {
		return nil
	}
	return v
}

func clampBudget(v *float64) *float64 {
	if v == nil {
		return nil
	}
	clamped := *v
	if clamped < 0 {
		clamped = 0
	}
	if clamped > maxBudget {
		clamped = maxBudget
	}
	return &clamped
}

package settings

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// IssueKind classifies what Sanitize did with a field.
type IssueKind string

const (
	IssueUnknownField IssueKind = "unknown_field"
	IssueWrongType    IssueKind = "wrong_type"
	IssueDefaulted    IssueKind = "defaulted"
	IssueClamped      IssueKind = "clamped"
)

// Issue describes a field that was dropped or altered during sanitization.
type Issue struct {
	Field   string    `json:"field"`
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

// Rejecting reports whether the issue means the input value was discarded.
func (i Issue) Rejecting() bool {
	return i.Kind == IssueUnknownField || i.Kind == IssueWrongType
}

type numberRule struct {
	min, max float64
	floor    bool
	fallback float64
}

var (
	boolFields = map[string]bool{
		"sidebarCollapsed":   true,
		"emailNotifications": true,
		"pushNotifications":  true,
		"invoiceReminders":   true,
		"twoFactorAuth":      true,
	}

	upperFields = map[string]bool{
		"companyGST":      true,
		"companyPAN":      true,
		"companyMSME":     true,
		"defaultCurrency": true,
	}

	textFields = map[string]bool{
		"companyName":    true,
		"companyEmail":   true,
		"companyPhone":   true,
		"companyAddress": true,
		"invoicePrefix":  true,
	}

	numberFields = map[string]numberRule{
		"defaultTaxRate":      {min: 0, max: 100, fallback: 18},
		"defaultPaymentTerms": {min: 1, max: math.Inf(1), floor: true, fallback: 30},
		"sessionTimeout":      {min: 5, max: math.Inf(1), floor: true, fallback: 60},
	}

	// Bookkeeping keys owned by the service; silently ignored on input.
	reservedFields = map[string]bool{
		"id":        true,
		"createdAt": true,
		"updatedAt": true,
	}
)

// SanitizePatch keeps only recognized settings fields, coerced to their
// canonical types and ranges. Unrecognized or malformed fields are dropped.
func SanitizePatch(input map[string]any) map[string]any {
	patch, _ := Sanitize(input)
	return patch
}

// Sanitize is SanitizePatch that also reports what it dropped or changed.
func Sanitize(input map[string]any) (map[string]any, []Issue) {
	patch := make(map[string]any)
	var issues []Issue

	for field, value := range input {
		switch {
		case reservedFields[field]:
		case field == "theme":
			if value == "dark" {
				patch[field] = "dark"
			} else {
				patch[field] = "light"
			}
		case boolFields[field]:
			b, ok := value.(bool)
			if !ok {
				issues = append(issues, Issue{Field: field, Kind: IssueWrongType, Message: "must be a boolean"})
				continue
			}
			patch[field] = b
		case upperFields[field], textFields[field]:
			s, ok := value.(string)
			if !ok {
				issues = append(issues, Issue{Field: field, Kind: IssueWrongType, Message: "must be a string"})
				continue
			}
			s = strings.TrimSpace(s)
			if upperFields[field] {
				s = strings.ToUpper(s)
			}
			patch[field] = s
		default:
			rule, ok := numberFields[field]
			if !ok {
				issues = append(issues, Issue{Field: field, Kind: IssueUnknownField, Message: "unknown field"})
				continue
			}
			n, finite := toNumber(value)
			if !finite {
				issues = append(issues, Issue{Field: field, Kind: IssueDefaulted, Message: "not a number, default applied"})
				patch[field] = rule.fallback
				continue
			}
			if rule.floor {
				n = math.Floor(n)
			}
			clamped := math.Min(math.Max(n, rule.min), rule.max)
			if clamped != n {
				issues = append(issues, Issue{Field: field, Kind: IssueClamped, Message: "clamped to allowed range"})
			}
			patch[field] = clamped
		}
	}
	return patch, issues
}

func toNumber(value any) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case int32:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

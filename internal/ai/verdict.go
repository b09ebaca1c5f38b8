// AngelaMos | 2026
// verdict.go

package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	TypeActionable    = "actionable"
	TypeMonitor       = "monitor"
	TypeClarification = "clarification"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Normalize coerces a raw provider verdict into the engine's contract:
// unknown types become monitor, clarifications never carry action data,
// an actionable verdict without action data is demoted to monitor, and
// confidence is clamped to [0,100].
func Normalize(v Verdict) Verdict {
	switch v.Type {
	case TypeActionable, TypeMonitor, TypeClarification:
	default:
		v.Type = TypeMonitor
	}

	if v.Type == TypeClarification {
		v.ActionData = nil
	}

	if v.Type == TypeActionable && len(v.ActionData) == 0 {
		v.Type = TypeMonitor
	}

	switch v.Priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
	default:
		v.Priority = ""
	}

	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 100 {
		v.Confidence = 100
	}

	if v.Title == "" {
		v.Title = "Campaign observation"
	}

	return v
}

// DerivePriority ranks a verdict for display ordering. A priority the
// model stated explicitly (and Normalize validated) wins; otherwise high
// confidence actionable changes with meaningful savings rank highest and
// clarifications never exceed medium.
func DerivePriority(v Verdict) string {
	if v.Priority != "" {
		return v.Priority
	}

	if v.Type == TypeClarification {
		if v.Confidence >= 80 {
			return PriorityMedium
		}
		return PriorityLow
	}

	savings := parseSavings(v.PotentialSavings)

	switch {
	case v.Confidence >= 85 && savings >= 100:
		return PriorityHigh
	case v.Confidence >= 85 && v.Type == TypeActionable:
		return PriorityHigh
	case v.Confidence >= 70:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func parseSavings(s string) float64 {
	if s == "" {
		return 0
	}
	cleaned := strings.TrimSpace(strings.TrimPrefix(s, "$"))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// parseVerdict extracts the JSON verdict object from raw model output.
// Models sometimes wrap the object in prose or a code fence, so the
// parser scans for the outermost braces.
func parseVerdict(text string) (Verdict, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Verdict{}, fmt.Errorf("no JSON object in model output")
	}

	var v Verdict
	if err := json.Unmarshal([]byte(text[start:end+1]), &v); err != nil {
		return Verdict{}, fmt.Errorf("parse verdict: %w", err)
	}

	return Normalize(v), nil
}

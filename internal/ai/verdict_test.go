// AngelaMos | 2026
// verdict_test.go

package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeClampsConfidence(t *testing.T) {
	assert.Equal(t, 100, Normalize(Verdict{Type: TypeMonitor, Confidence: 140}).Confidence)
	assert.Equal(t, 0, Normalize(Verdict{Type: TypeMonitor, Confidence: -5}).Confidence)
}

func TestNormalizeUnknownTypeBecomesMonitor(t *testing.T) {
	v := Normalize(Verdict{Type: "urgent", Confidence: 90})
	assert.Equal(t, TypeMonitor, v.Type)
}

func TestNormalizeClarificationDropsActionData(t *testing.T) {
	v := Normalize(Verdict{
		Type:       TypeClarification,
		Confidence: 60,
		ActionData: json.RawMessage(`{"field":"status","new_value":"paused"}`),
	})

	assert.Equal(t, TypeClarification, v.Type)
	assert.Nil(t, v.ActionData)
}

func TestNormalizeActionableWithoutActionDataDemoted(t *testing.T) {
	v := Normalize(Verdict{Type: TypeActionable, Confidence: 92})
	assert.Equal(t, TypeMonitor, v.Type)
}

func TestNormalizeActionableWithActionDataKept(t *testing.T) {
	v := Normalize(Verdict{
		Type:       TypeActionable,
		Confidence: 92,
		ActionData: json.RawMessage(`{"field":"daily_budget","new_value":"40.00"}`),
	})
	assert.Equal(t, TypeActionable, v.Type)
}

func TestNormalizeUnknownPriorityCleared(t *testing.T) {
	v := Normalize(Verdict{Type: TypeMonitor, Priority: "urgent", Confidence: 60})
	assert.Empty(t, v.Priority)
}

func TestDerivePriorityHonorsExplicitPriority(t *testing.T) {
	// A stated priority wins even where the derivation would rank higher.
	v := Verdict{
		Type:       TypeActionable,
		Priority:   PriorityLow,
		Confidence: 95,
		ActionData: json.RawMessage(`{"field":"status","new_value":"paused"}`),
	}
	assert.Equal(t, PriorityLow, DerivePriority(v))
}

func TestDerivePriority(t *testing.T) {
	actionData := json.RawMessage(`{"field":"daily_budget","new_value":"40.00"}`)

	tests := []struct {
		name    string
		verdict Verdict
		want    string
	}{
		{
			name: "high confidence actionable with savings",
			verdict: Verdict{
				Type:             TypeActionable,
				Confidence:       90,
				PotentialSavings: "240.00",
				ActionData:       actionData,
			},
			want: PriorityHigh,
		},
		{
			name:    "high confidence actionable without savings",
			verdict: Verdict{Type: TypeActionable, Confidence: 88, ActionData: actionData},
			want:    PriorityHigh,
		},
		{
			name:    "medium confidence monitor",
			verdict: Verdict{Type: TypeMonitor, Confidence: 75},
			want:    PriorityMedium,
		},
		{
			name:    "low confidence monitor",
			verdict: Verdict{Type: TypeMonitor, Confidence: 40},
			want:    PriorityLow,
		},
		{
			name:    "confident clarification capped at medium",
			verdict: Verdict{Type: TypeClarification, Confidence: 95},
			want:    PriorityMedium,
		},
		{
			name:    "weak clarification",
			verdict: Verdict{Type: TypeClarification, Confidence: 50},
			want:    PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePriority(tt.verdict))
		})
	}
}

func TestParseVerdictPlainJSON(t *testing.T) {
	text := `{"type":"actionable","title":"Lower daily budget","confidence":85,"action_data":{"field":"daily_budget","new_value":"30.00"}}`

	v, err := parseVerdict(text)
	require.NoError(t, err)

	assert.Equal(t, TypeActionable, v.Type)
	assert.Equal(t, 85, v.Confidence)
}

func TestParseVerdictInsideCodeFence(t *testing.T) {
	text := "Here is my assessment:\n```json\n{\"type\":\"monitor\",\"title\":\"Hold steady\",\"confidence\":72}\n```\nLet me know if you need more."

	v, err := parseVerdict(text)
	require.NoError(t, err)

	assert.Equal(t, TypeMonitor, v.Type)
	assert.Equal(t, 72, v.Confidence)
}

func TestParseVerdictNoJSON(t *testing.T) {
	_, err := parseVerdict("the campaign looks fine to me")
	assert.Error(t, err)
}

func TestParseSavings(t *testing.T) {
	assert.Equal(t, 240.0, parseSavings("240.00"))
	assert.Equal(t, 1250.5, parseSavings("$1,250.50"))
	assert.Equal(t, 0.0, parseSavings(""))
	assert.Equal(t, 0.0, parseSavings("unknown"))
}

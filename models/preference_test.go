package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePreferenceNewShape(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "p1",
		"preference_name": "SaaS focus",
		"overall_custom_eval": "prefer B2B SaaS",
		"traction_custom_eval": "MRR over 10k",
		"use_custom_eval": true
	}`)

	pref, err := NormalizePreference(raw)
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "p1", pref.ID)
	assert.Equal(t, "prefer B2B SaaS", pref.OverallCustomEval)
	assert.Equal(t, "MRR over 10k", pref.TractionCustomEval)
	assert.True(t, pref.UseCustomEval)
	assert.Nil(t, pref.Weights)
}

func TestNormalizePreferenceLegacyShape(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "p2",
		"preference_name": "classic",
		"custom_rules_text": "weight traction highest",
		"use_custom_eval": true,
		"weights": {"founders": 30, "market": 20, "product": 10, "traction": 25, "vision": 10, "investors": 5}
	}`)

	pref, err := NormalizePreference(raw)
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "p2", pref.ID)
	assert.Equal(t, "weight traction highest", pref.OverallCustomEval)
	require.NotNil(t, pref.Weights)
	assert.Equal(t, 30, pref.Weights.Founders)
	assert.Equal(t, 25, pref.Weights.Traction)
}

func TestNormalizePreferenceEnvelope(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "p3",
		"preferences": {"overall_custom_eval": "climate tech only", "use_custom_eval": true}
	}`)

	pref, err := NormalizePreference(raw)
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "p3", pref.ID, "envelope id fills in when the inner payload has none")
	assert.Equal(t, "climate tech only", pref.OverallCustomEval)
}

func TestNormalizePreferenceArrayTakesFirst(t *testing.T) {
	raw := json.RawMessage(`[
		{"id": "p4", "overall_custom_eval": "first", "use_custom_eval": true},
		{"id": "p5", "overall_custom_eval": "second", "use_custom_eval": false}
	]`)

	pref, err := NormalizePreference(raw)
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "p4", pref.ID)
	assert.Equal(t, "first", pref.OverallCustomEval)
}

func TestNormalizePreferenceEmptyStates(t *testing.T) {
	for _, raw := range []string{`[]`, `null`, ``, `  `} {
		pref, err := NormalizePreference(json.RawMessage(raw))
		require.NoError(t, err, "input %q", raw)
		assert.Nil(t, pref, "input %q", raw)
	}
}

func TestNormalizePreferenceNewShapeWithWeights(t *testing.T) {
	// Both eval texts and weights present reads as the new shape.
	raw := json.RawMessage(`{
		"id": "p6",
		"overall_custom_eval": "hybrid",
		"use_custom_eval": true,
		"weights": {"founders": 50}
	}`)

	pref, err := NormalizePreference(raw)
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "hybrid", pref.OverallCustomEval)
	require.NotNil(t, pref.Weights)
	assert.Equal(t, 50, pref.Weights.Founders)
}

func TestNormalizePreferenceMalformed(t *testing.T) {
	_, err := NormalizePreference(json.RawMessage(`{not json`))
	assert.Error(t, err)
}

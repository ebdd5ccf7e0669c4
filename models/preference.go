package models

import (
	"bytes"
	"encoding/json"
)

// Weights is the legacy per-dimension weighting, 0-100 each.
type Weights struct {
	Founders  int `json:"founders"`
	Market    int `json:"market"`
	Product   int `json:"product"`
	Traction  int `json:"traction"`
	Vision    int `json:"vision"`
	Investors int `json:"investors"`
}

// Preference is the canonical evaluation configuration for a firm. The
// backend has emitted two historical shapes; NormalizePreference folds both
// into this one so nothing downstream has to branch on shape again.
type Preference struct {
	ID                  string `json:"id,omitempty"`
	PreferenceName      string `json:"preference_name,omitempty"`
	OverallCustomEval   string `json:"overall_custom_eval"`
	FoundersCustomEval  string `json:"founders_custom_eval"`
	ProductCustomEval   string `json:"product_custom_eval"`
	MarketCustomEval    string `json:"market_custom_eval"`
	VisionCustomEval    string `json:"vision_custom_eval"`
	TractionCustomEval  string `json:"traction_custom_eval"`
	InvestorsCustomEval string `json:"investors_custom_eval"`
	UseCustomEval       bool   `json:"use_custom_eval"`

	// Carried over from legacy payloads; nil for the newer shape.
	Weights *Weights `json:"weights,omitempty"`
}

// legacyPreference is the weights-based shape predating custom eval texts.
type legacyPreference struct {
	ID              string  `json:"id"`
	PreferenceName  string  `json:"preference_name"`
	CustomRulesText string  `json:"custom_rules_text"`
	UseCustomEval   bool    `json:"use_custom_eval"`
	Weights         Weights `json:"weights"`
}

// NormalizePreference converts either historical payload shape into the
// canonical Preference. The payload may additionally be wrapped in a
// {"preferences": ...} envelope or be a bare array; an empty array or a
// null body yields (nil, nil), meaning no preference exists yet.
func NormalizePreference(raw json.RawMessage) (*Preference, error) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	// Some backend versions return a list; only the first entry counts.
	if body[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, nil
		}
		return NormalizePreference(items[0])
	}

	var envelope struct {
		ID          string          `json:"id"`
		Preferences json.RawMessage `json:"preferences"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	inner := body
	if wrapped := bytes.TrimSpace(envelope.Preferences); len(wrapped) > 0 && !bytes.Equal(wrapped, []byte("null")) {
		inner = wrapped
	}

	// Shape discrimination: a weights object without eval texts is legacy.
	var probe struct {
		OverallCustomEval *string          `json:"overall_custom_eval"`
		Weights           *json.RawMessage `json:"weights"`
	}
	if err := json.Unmarshal(inner, &probe); err != nil {
		return nil, err
	}

	if probe.Weights != nil && probe.OverallCustomEval == nil {
		var legacy legacyPreference
		if err := json.Unmarshal(inner, &legacy); err != nil {
			return nil, err
		}
		pref := &Preference{
			ID:                legacy.ID,
			PreferenceName:    legacy.PreferenceName,
			OverallCustomEval: legacy.CustomRulesText,
			UseCustomEval:     legacy.UseCustomEval,
			Weights:           &legacy.Weights,
		}
		if pref.ID == "" {
			pref.ID = envelope.ID
		}
		return pref, nil
	}

	var pref Preference
	if err := json.Unmarshal(inner, &pref); err != nil {
		return nil, err
	}
	if pref.ID == "" {
		pref.ID = envelope.ID
	}
	return &pref, nil
}

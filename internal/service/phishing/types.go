package phishing

import (
	"fmt"
	"strconv"
)

// Verdict is the normalized classification result. Confidence is a
// percentage in [0, 100]; nil when the classifier reported none.
type Verdict struct {
	Status     string   `json:"status"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type APIError struct {
	StatusCode int    `json:"-"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("classifier api error (%d): %s", e.StatusCode, e.Detail)
}

// confidenceKeys is probed in order; deployed classifier versions have
// returned the score under all of these names.
var confidenceKeys = []string{
	"confidence",
	"score",
	"probability",
	"prob",
	"confidence_score",
	"prediction_confidence",
}

func parseVerdict(raw map[string]any) *Verdict {
	v := &Verdict{}
	if s, ok := raw["status"].(string); ok {
		v.Status = s
	} else if s, ok := raw["prediction"].(string); ok {
		v.Status = s
	}

	score, ok := probeScore(raw)
	if !ok {
		return v
	}
	// A value in [0, 1] is a fraction; scale it to percent.
	if score <= 1 {
		score *= 100
	}
	v.Confidence = &score
	return v
}

func probeScore(raw map[string]any) (float64, bool) {
	for _, key := range confidenceKeys {
		if n, ok := asFloat(raw[key]); ok {
			return n, true
		}
	}

	// Some versions return per-class probabilities; take the max.
	switch probs := raw["probabilities"].(type) {
	case []any:
		return maxFloat(probs)
	case map[string]any:
		vals := make([]any, 0, len(probs))
		for _, p := range probs {
			vals = append(vals, p)
		}
		return maxFloat(vals)
	}

	if meta, ok := raw["metadata"].(map[string]any); ok {
		if n, ok := asFloat(meta["confidence"]); ok {
			return n, true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		if parsed, err := strconv.ParseFloat(n, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func maxFloat(vals []any) (float64, bool) {
	var best float64
	found := false
	for _, v := range vals {
		if n, ok := asFloat(v); ok && (!found || n > best) {
			best = n
			found = true
		}
	}
	return best, found
}

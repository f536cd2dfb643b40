package mygo

import "encoding/json"

const maskValue = "***"

// redactedKeys are masked wherever they appear in an outbound payload
// before it is logged. Matching is exact on the supplier's field names.
var redactedKeys = map[string]bool{
	"Login":    true,
	"Password": true,
	"Token":    true,
}

// redactPayload returns a JSON view of body with credential fields masked.
// It works on a decoded clone, so the original serialized payload is never
// touched. Bodies that are not JSON objects come back unchanged.
func redactPayload(body []byte) string {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body)
	}
	masked, err := json.Marshal(maskRecursive(decoded))
	if err != nil {
		return string(body)
	}
	return string(masked)
}

func maskRecursive(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if redactedKeys[k] {
				out[k] = maskValue
				continue
			}
			out[k] = maskRecursive(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = maskRecursive(inner)
		}
		return out
	default:
		return v
	}
}

// previewBody bounds an upstream error body for logging.
func previewBody(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DecodeResponse reads one JSON envelope from r.
//
// The body must be a JSON object; anything else is ErrMalformedEnvelope.
// Inside an object nothing is rejected: see ResponseFromMap.
func DecodeResponse(r io.Reader) (ActionResponse, error) {
	var raw map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return ActionResponse{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if raw == nil {
		return ActionResponse{}, fmt.Errorf("%w: body is null", ErrMalformedEnvelope)
	}
	return ResponseFromMap(raw), nil
}

// ParseResponse is DecodeResponse over a byte slice.
func ParseResponse(data []byte) (ActionResponse, error) {
	return DecodeResponse(bytes.NewReader(data))
}

// ResponseFromMap maps an already decoded JSON object onto an ActionResponse.
//
// The dispatch keys (success, redirect_url, reload, error) are decoded first
// and on their own, so a payload of unexpected shape never hides them. Values
// are converted loosely: ids sent as "42" or 42.0 still map to PostID and
// CommentID. A key whose value cannot be converted leaves its field at the
// zero value and is listed in Skipped. A missing "success" key reads as a
// failure.
func ResponseFromMap(raw map[string]any) ActionResponse {
	resp := ActionResponse{Fields: raw}

	weak := []struct {
		key    string
		target any
	}{
		{"success", &resp.Success},
		{"redirect_url", &resp.RedirectURL},
		{"reload", &resp.Reload},
		{"error", &resp.Error},
	}
	for _, f := range weak {
		v, ok := raw[f.key]
		if !ok || v == nil {
			continue
		}
		if err := mapstructure.WeakDecode(v, f.target); err != nil {
			resp.Skipped = append(resp.Skipped, f.key)
		}
	}

	ids := []struct {
		key    string
		target *int64
	}{
		{"post_id", &resp.PostID},
		{"comment_id", &resp.CommentID},
	}
	for _, f := range ids {
		v, ok := raw[f.key]
		if !ok || v == nil {
			continue
		}
		if id, ok := toInt(v); ok {
			*f.target = id
		} else {
			resp.Skipped = append(resp.Skipped, f.key)
		}
	}

	if v, ok := raw["score"]; ok && v != nil {
		if score, ok := toScore(v); ok {
			resp.Score = &score
		} else {
			resp.Skipped = append(resp.Skipped, "score")
		}
	}

	sort.Strings(resp.Skipped)
	return resp
}

// toInt accepts integral numbers in any JSON notation ("9", 9, 9.0).
func toInt(v any) (int64, bool) {
	var text string
	switch n := v.(type) {
	case json.Number:
		text = n.String()
	case string:
		text = strings.TrimSpace(n)
	case float64:
		text = strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func toScore(v any) (Score, bool) {
	var text string
	switch n := v.(type) {
	case json.Number:
		text = n.String()
	case string:
		text = strings.TrimSpace(n)
	case float64:
		return Score(strconv.FormatFloat(n, 'f', -1, 64)), true
	case int:
		return Score(strconv.Itoa(n)), true
	case int64:
		return Score(strconv.FormatInt(n, 10)), true
	default:
		return "", false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	if !json.Valid([]byte(text)) {
		// "+5", "5." and the like parse but are not JSON numbers.
		text = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return Score(text), true
}

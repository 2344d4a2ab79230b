package insight

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/drpaneas/gitinsight/internal/apperr"
	"github.com/drpaneas/gitinsight/internal/model"
	"github.com/drpaneas/gitinsight/internal/textutil"
)

const (
	maxItems    = 20
	maxTopRepos = 10

	defaultStarRating = 1.0
	noSummary         = "No summary available."
)

// ParseRepoInsight decodes a repository assessment. Missing or ill-typed
// fields take their defaults; only a document that is not a JSON object at
// all is an error.
func ParseRepoInsight(raw string) (model.RepoInsight, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return model.RepoInsight{}, err
	}
	return model.RepoInsight{
		TechStack:            stringSet(fields["techStack"]),
		FileStructureSummary: stringOr(fields["fileStructureSummary"], noSummary),
		StarRating:           starRating(fields["starRating"]),
		Items:                parseItems(fields["items"]),
	}, nil
}

// ParseProfileInsight decodes a profile assessment with the same tolerance
// as ParseRepoInsight.
func ParseProfileInsight(raw string) (model.ProfileInsight, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return model.ProfileInsight{}, err
	}
	health := 0
	if v, ok := number(fields["healthScore"]); ok {
		health = clampInt(int(math.Round(v)), 0, 100)
	}
	return model.ProfileInsight{
		ProfileSummary: stringOr(fields["profileSummary"], noSummary),
		StarRating:     starRating(fields["starRating"]),
		MainExpertise:  stringSet(fields["mainExpertise"]),
		HealthScore:    health,
		Suggestions:    stringSet(fields["suggestions"]),
		TopRepos:       parseTopRepos(fields["topRepos"]),
	}, nil
}

// decodeObject reads the model reply as a JSON object. It tries the text as
// given, then with trailing commas removed, then the outermost {...} span for
// replies that wrap the object in prose.
func decodeObject(raw string) (map[string]json.RawMessage, error) {
	text := textutil.StripCodeFences(raw)
	if text == "" {
		return nil, apperr.New(apperr.AIUnavailable, "empty response from model", nil)
	}
	candidates := []string{text, textutil.SanitizeJSON(text)}
	if obj, ok := textutil.ExtractObject(text); ok && obj != text {
		candidates = append(candidates, obj, textutil.SanitizeJSON(obj))
	}

	var fields map[string]json.RawMessage
	var firstErr error
	for _, c := range candidates {
		fields = nil
		err := json.Unmarshal([]byte(c), &fields)
		if err == nil {
			firstErr = nil
			break
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, apperr.New(apperr.AIUnavailable,
			fmt.Sprintf("invalid JSON from model (first 200 bytes: %s)", textutil.Excerpt(raw, 200, "...")), firstErr)
	}
	if fields == nil {
		return nil, apperr.New(apperr.AIUnavailable, "model returned null", nil)
	}
	return fields, nil
}

func number(v json.RawMessage) (float64, bool) {
	if len(v) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return 0, false
	}
	return f, true
}

func stringOr(v json.RawMessage, def string) string {
	var s string
	if len(v) == 0 || json.Unmarshal(v, &s) != nil || strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

// stringSet keeps the non-empty strings of a JSON array, first occurrence wins.
// Non-string elements are skipped rather than failing the whole array.
func stringSet(v json.RawMessage) []string {
	out := []string{}
	var elems []json.RawMessage
	if len(v) == 0 || json.Unmarshal(v, &elems) != nil {
		return out
	}
	seen := make(map[string]bool, len(elems))
	for _, e := range elems {
		var s string
		if json.Unmarshal(e, &s) != nil {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func starRating(v json.RawMessage) float64 {
	f, ok := number(v)
	if !ok {
		return defaultStarRating
	}
	return math.Max(1, math.Min(5, f))
}

type rawItem struct {
	Name json.RawMessage `json:"name"`
	Kind json.RawMessage `json:"kind"`
	Path json.RawMessage `json:"path"`
}

func parseItems(v json.RawMessage) []model.Item {
	out := []model.Item{}
	var elems []json.RawMessage
	if len(v) == 0 || json.Unmarshal(v, &elems) != nil {
		return out
	}
	for _, e := range elems {
		if len(out) == maxItems {
			break
		}
		var ri rawItem
		if json.Unmarshal(e, &ri) != nil {
			continue
		}
		name := stringOr(ri.Name, "")
		kind, ok := normalizeKind(stringOr(ri.Kind, ""))
		if name == "" || !ok {
			continue
		}
		out = append(out, model.Item{Name: name, Kind: kind, Path: stringOr(ri.Path, "")})
	}
	return out
}

func normalizeKind(s string) (model.ItemKind, bool) {
	for _, k := range model.ItemKinds {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}

type rawTopRepo struct {
	Name         json.RawMessage `json:"name"`
	Pitch        json.RawMessage `json:"pitch"`
	QualityScore json.RawMessage `json:"qualityScore"`
}

func parseTopRepos(v json.RawMessage) []model.TopRepoInsight {
	out := []model.TopRepoInsight{}
	var elems []json.RawMessage
	if len(v) == 0 || json.Unmarshal(v, &elems) != nil {
		return out
	}
	for _, e := range elems {
		if len(out) == maxTopRepos {
			break
		}
		var rr rawTopRepo
		if json.Unmarshal(e, &rr) != nil {
			continue
		}
		name := stringOr(rr.Name, "")
		if name == "" {
			continue
		}
		quality := model.FallbackQualityScore
		if q, ok := number(rr.QualityScore); ok {
			quality = clampInt(int(math.Round(q)), 1, 100)
		}
		out = append(out, model.TopRepoInsight{
			Name:         name,
			Pitch:        stringOr(rr.Pitch, model.FallbackPitch),
			QualityScore: quality,
		})
	}
	return out
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

package insight

import (
	"encoding/json"

	"github.com/drpaneas/gitinsight/internal/llm"
)

// RepoSchema is the output contract for a repository assessment.
var RepoSchema = llm.Schema{
	Name: "repository_analysis",
	Definition: json.RawMessage(`{
  "type": "object",
  "properties": {
    "techStack": {"type": "array", "items": {"type": "string"}},
    "fileStructureSummary": {"type": "string"},
    "starRating": {"type": "number", "minimum": 1, "maximum": 5},
    "items": {
      "type": "array",
      "maxItems": 20,
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "kind": {"type": "string", "enum": ["Function", "Class", "Variable"]},
          "path": {"type": "string"}
        },
        "required": ["name", "kind", "path"],
        "additionalProperties": false
      }
    }
  },
  "required": ["techStack", "fileStructureSummary", "starRating", "items"],
  "additionalProperties": false
}`),
}

// ProfileSchema is the output contract for a developer profile assessment.
var ProfileSchema = llm.Schema{
	Name: "profile_analysis",
	Definition: json.RawMessage(`{
  "type": "object",
  "properties": {
    "profileSummary": {"type": "string"},
    "starRating": {"type": "number", "minimum": 1, "maximum": 5},
    "mainExpertise": {"type": "array", "items": {"type": "string"}},
    "healthScore": {"type": "integer", "minimum": 0, "maximum": 100},
    "suggestions": {"type": "array", "items": {"type": "string"}},
    "topRepos": {
      "type": "array",
      "maxItems": 10,
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "pitch": {"type": "string"},
          "qualityScore": {"type": "integer", "minimum": 1, "maximum": 100}
        },
        "required": ["name", "pitch", "qualityScore"],
        "additionalProperties": false
      }
    }
  },
  "required": ["profileSummary", "starRating", "mainExpertise", "healthScore", "suggestions", "topRepos"],
  "additionalProperties": false
}`),
}

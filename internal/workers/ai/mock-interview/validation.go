package mockinterview

import "career-guide/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"action"},
		Properties: map[string]validation.Property{
			"action": {
				Type:        "string",
				Description: "get_question or evaluate",
			},
			"field": {
				Type:      "string",
				MaxLength: validation.IntPtr(100),
			},
			"question": {Type: "string"},
			"answer":   {Type: "string"},
		},
		AdditionalProperties: true,
	}
}

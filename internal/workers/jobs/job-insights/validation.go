package jobinsights

import "career-guide/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"role"},
		Properties: map[string]validation.Property{
			"role": {
				Type:        "string",
				Description: "Job title to search for",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(200),
			},
			"location": {
				Type:        "string",
				Description: "Adzuna country code",
				Pattern:     validation.StringPtr("^[a-z]{2}$"),
			},
		},
		AdditionalProperties: true,
	}
}

package predictcareer

import "career-guide/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"skills"},
		Properties: map[string]validation.Property{
			"skills": {
				Type:        "object",
				Description: "Self-rating label per skill dimension",
			},
			"user_email": {
				Type:      "string",
				MaxLength: validation.IntPtr(255),
			},
		},
		AdditionalProperties: true,
	}
}

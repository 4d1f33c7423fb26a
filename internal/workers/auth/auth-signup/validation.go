package authsignup

import "career-guide/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"name", "email", "password"},
		Properties: map[string]validation.Property{
			"name": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
				MaxLength: validation.IntPtr(200),
			},
			"email": {
				Type:      "string",
				Pattern:   validation.StringPtr(`^[^@\s]+@[^@\s]+$`),
				MaxLength: validation.IntPtr(320),
			},
			"password": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
				// bcrypt ignores bytes past 72
				MaxLength: validation.IntPtr(72),
			},
		},
		AdditionalProperties: false,
	}
}

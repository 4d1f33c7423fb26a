package emailsend

import "career-guide/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"to", "subject", "body"},
		Properties: map[string]validation.Property{
			"from": {
				Type:        "string",
				Description: "Sender address, defaults to the configured sender",
				MaxLength:   validation.IntPtr(255),
			},
			"to": {
				Type:        "string",
				Description: "Recipient email address",
				MinLength:   validation.IntPtr(5),
				MaxLength:   validation.IntPtr(255),
			},
			"replyTo": {
				Type:      "string",
				MaxLength: validation.IntPtr(255),
			},
			"subject": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
				MaxLength: validation.IntPtr(500),
			},
			"body": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
				MaxLength: validation.IntPtr(100000),
			},
			"isHtml": {
				Type: "boolean",
			},
		},
		AdditionalProperties: false,
	}
}

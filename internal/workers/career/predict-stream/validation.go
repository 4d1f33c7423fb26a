package predictstream

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"career-guide/internal/common/validation"
)

func GetInputSchema() validation.JSONSchema {
	numeric := []string{"number", "string"}
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"math_marks":       {Type: numeric},
			"science_marks":    {Type: numeric},
			"social_marks":     {Type: numeric},
			"english_marks":    {Type: numeric},
			"hobby":            {Type: "string"},
			"activity":         {Type: "string"},
			"logic_score":      {Type: numeric},
			"creative_score":   {Type: numeric},
			"leadership_score": {Type: numeric},
			"user_email":       {Type: "string"},
		},
		AdditionalProperties: true,
	}
}

// toFeatures normalises the raw input. A missing value counts as zero.
func toFeatures(input *Input) (*Features, error) {
	f := &Features{
		Hobby:    input.Hobby,
		Activity: input.Activity,
	}
	if f.Hobby == "" {
		f.Hobby = "Technical"
	}
	if f.Activity == "" {
		f.Activity = "Robotics"
	}

	var err error
	floats := []struct {
		name string
		raw  interface{}
		dst  *float64
	}{
		{"math_marks", input.MathMarks, &f.MathMarks},
		{"science_marks", input.ScienceMarks, &f.ScienceMarks},
		{"social_marks", input.SocialMarks, &f.SocialMarks},
		{"english_marks", input.EnglishMarks, &f.EnglishMarks},
	}
	for _, field := range floats {
		if *field.dst, err = parseFloat(field.name, field.raw); err != nil {
			return nil, err
		}
	}

	ints := []struct {
		name string
		raw  interface{}
		dst  *int
	}{
		{"logic_score", input.LogicScore, &f.LogicScore},
		{"creative_score", input.CreativeScore, &f.CreativeScore},
		{"leadership_score", input.LeadershipScore, &f.LeadershipScore},
	}
	for _, field := range ints {
		if *field.dst, err = parseInt(field.name, field.raw); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func parseFloat(name string, raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("could not convert %s to float: '%s'", name, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}

func parseInt(name string, raw interface{}) (int, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		if v >= float64(math.MaxInt) || v < float64(math.MinInt) {
			return 0, fmt.Errorf("%s is out of range: %v", name, v)
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("invalid literal for %s: '%s'", name, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", name)
	}
}

package generateportfolio

import (
	"bytes"
	"encoding/json"
	"strconv"

	"career-guide/internal/common/events"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/storage"
)

// Upload field names. Project images use ProjectImageField(i).
const (
	FieldHeroImage  = "heroImage"
	FieldAboutImage = "aboutImage"
	FieldResume     = "resume"
)

func ProjectImageField(i int) string {
	return "projectImage_" + strconv.Itoa(i)
}

type Input struct {
	UserData UserData `json:"userData"`
	// Files is keyed by upload field name.
	Files map[string]Upload `json:"files,omitempty"`
}

type Upload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

type UserData struct {
	Name              string     `json:"name"`
	Role              string     `json:"role"`
	Bio               string     `json:"bio"`
	ExperienceYears   FlexString `json:"experienceYears"`
	ProjectsCompleted FlexString `json:"projectsCompleted"`
	CompaniesWorked   FlexString `json:"companiesWorked"`
	Skills            []Skill    `json:"skills"`
	Projects          []Project  `json:"projects"`
	Education         []Degree   `json:"education"`
	Contact           Contact    `json:"contact"`
	HasHeroImage      *bool      `json:"hasHeroImage"`
	HasAboutImage     *bool      `json:"hasAboutImage"`
}

type Skill struct {
	Name  string     `json:"name"`
	Level FlexString `json:"level"`
}

type Project struct {
	Title      string `json:"title"`
	Desc       string `json:"desc"`
	GithubLink string `json:"githubLink"`
	Image      string `json:"image"`
}

type Degree struct {
	Degree      string     `json:"degree"`
	Institution string     `json:"institution"`
	Year        FlexString `json:"year"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// FlexString accepts a JSON string or number.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

type Output struct {
	HTML string `json:"html"`
}

type ServiceDependencies struct {
	Store  storage.Store
	Events events.Publisher
	Logger logger.Logger
}

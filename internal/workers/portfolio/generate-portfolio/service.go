package generateportfolio

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"career-guide/internal/common/errors"
	"career-guide/internal/common/events"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/storage"
)

//go:embed portfolio.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("portfolio").Parse(pageSource))

const (
	defaultHeroImage  = "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?q=80&w=600&h=600&auto=format&fit=crop"
	defaultAboutImage = "https://images.unsplash.com/photo-1498050108023-c5249f4df085?q=80&w=600&h=800&auto=format&fit=crop"
	projectImageURL   = "https://source.unsplash.com/random/800x600/?tech,website&sig=%d"
)

// page is the template model. Every field is already defaulted.
type page struct {
	Name              string
	FirstName         string
	Role              string
	Bio               string
	ResumeURL         string
	ShowHeroImage     bool
	HeroImage         string
	ShowAboutImage    bool
	AboutImage        string
	ExperienceYears   string
	ProjectsCompleted string
	CompaniesWorked   string
	Skills            []skillView
	Education         []Degree
	Projects          []projectView
	Email             string
	Phone             string
	Location          string
	Year              int
}

type skillView struct {
	Name  string
	Level string
}

type projectView struct {
	Title string
	Desc  string
	Link  string
	Image string
}

type Service struct {
	config *Config
	store  storage.Store
	events events.Publisher
	logger logger.Logger
	now    func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	pub := deps.Events
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Service{
		config: config,
		store:  deps.Store,
		events: pub,
		logger: deps.Logger,
		now:    time.Now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	data := input.UserData
	if len(data.Projects) > s.config.MaxProjects {
		return nil, errors.NewValidationError(fmt.Sprintf("at most %d projects are allowed", s.config.MaxProjects))
	}

	urls, err := s.saveUploads(ctx, input.Files, len(data.Projects))
	if err != nil {
		return nil, err
	}

	p := buildPage(data, urls, s.now())

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, errors.NewInternalError("failed to render portfolio", err)
	}

	s.logger.Info("portfolio generated", map[string]interface{}{
		"projects": len(p.Projects),
		"uploads":  len(urls),
	})
	if err := s.events.Publish(ctx, events.PortfolioCreated, map[string]interface{}{
		"name":    p.Name,
		"uploads": len(urls),
	}); err != nil {
		s.logger.Warn("failed to publish portfolio event", map[string]interface{}{"error": err.Error()})
	}

	return &Output{HTML: buf.String()}, nil
}

// saveUploads stores each non-empty upload and returns public URLs keyed by
// field name. Project images beyond the project list are ignored.
func (s *Service) saveUploads(ctx context.Context, files map[string]Upload, projects int) (map[string]string, error) {
	prefixes := map[string]string{
		FieldHeroImage:  "hero",
		FieldAboutImage: "about",
		FieldResume:     "resume",
	}
	for i := 0; i < projects; i++ {
		prefixes[ProjectImageField(i)] = fmt.Sprintf("proj_%d", i)
	}

	urls := make(map[string]string)
	for field, prefix := range prefixes {
		up, ok := files[field]
		if !ok || up.Filename == "" {
			continue
		}
		if s.store == nil {
			return nil, errors.NewConfigurationError("file storage is not configured")
		}
		if int64(len(up.Data)) > s.config.MaxFileBytes {
			return nil, errors.NewValidationError(fmt.Sprintf("%s exceeds %d bytes", field, s.config.MaxFileBytes))
		}

		name := storage.ObjectName(prefix, up.Filename, s.now())
		url, err := s.store.Save(ctx, name, up.ContentType, bytes.NewReader(up.Data))
		if err != nil {
			return nil, errors.NewStorageFailedError(fmt.Sprintf("failed to store %s", field), err)
		}
		urls[field] = url
	}
	return urls, nil
}

func buildPage(data UserData, urls map[string]string, now time.Time) page {
	p := page{
		Name:              orDefault(data.Name, "User Name"),
		Role:              orDefault(data.Role, "Creative Professional"),
		Bio:               orDefault(data.Bio, "Passionate about creating digital experiences."),
		ResumeURL:         orDefault(urls[FieldResume], "#"),
		ShowHeroImage:     data.HasHeroImage == nil || *data.HasHeroImage,
		HeroImage:         orDefault(urls[FieldHeroImage], defaultHeroImage),
		ShowAboutImage:    data.HasAboutImage == nil || *data.HasAboutImage,
		AboutImage:        orDefault(urls[FieldAboutImage], defaultAboutImage),
		ExperienceYears:   orDefault(string(data.ExperienceYears), "1+"),
		ProjectsCompleted: orDefault(string(data.ProjectsCompleted), "10+"),
		CompaniesWorked:   orDefault(string(data.CompaniesWorked), "1+"),
		Email:             orDefault(data.Contact.Email, "contact@example.com"),
		Phone:             orDefault(data.Contact.Phone, "+123 456 7890"),
		Location:          orDefault(data.Contact.Location, "Remote"),
		Year:              now.Year(),
	}
	p.FirstName = strings.Fields(p.Name)[0]

	for _, sk := range data.Skills {
		if sk.Name == "" {
			continue
		}
		p.Skills = append(p.Skills, skillView{Name: sk.Name, Level: orDefault(string(sk.Level), "80")})
	}

	for _, d := range data.Education {
		p.Education = append(p.Education, Degree{
			Degree:      orDefault(d.Degree, "Degree"),
			Institution: orDefault(d.Institution, "Institution"),
			Year:        FlexString(orDefault(string(d.Year), "Year")),
		})
	}

	for i, proj := range data.Projects {
		image := proj.Image
		if u, ok := urls[ProjectImageField(i)]; ok {
			image = u
		}
		p.Projects = append(p.Projects, projectView{
			Title: orDefault(proj.Title, fmt.Sprintf("Project %d", i+1)),
			Desc:  orDefault(proj.Desc, "No description provided."),
			Link:  orDefault(proj.GithubLink, "#"),
			Image: orDefault(image, fmt.Sprintf(projectImageURL, i)),
		})
	}
	return p
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

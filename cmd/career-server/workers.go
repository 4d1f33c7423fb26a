package main

import (
	"context"
	"database/sql"
	"time"

	"career-guide/internal/api"
	"career-guide/internal/career/skillgap"
	awsclients "career-guide/internal/common/aws"
	"career-guide/internal/common/camunda"
	"career-guide/internal/common/config"
	"career-guide/internal/common/events"
	"career-guide/internal/common/llm"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/observability"
	"career-guide/internal/common/predictor"
	"career-guide/internal/common/storage"
	coverletter "career-guide/internal/workers/ai/cover-letter"
	linkedinaudit "career-guide/internal/workers/ai/linkedin-audit"
	mockinterview "career-guide/internal/workers/ai/mock-interview"
	authlogin "career-guide/internal/workers/auth/auth-login"
	authsignup "career-guide/internal/workers/auth/auth-signup"
	predictcareer "career-guide/internal/workers/career/predict-career"
	predictstream "career-guide/internal/workers/career/predict-stream"
	emailsend "career-guide/internal/workers/communication/email-send"
	searchpredictions "career-guide/internal/workers/data-access/search-predictions"
	jobinsights "career-guide/internal/workers/jobs/job-insights"
	generateportfolio "career-guide/internal/workers/portfolio/generate-portfolio"
	profilefetch "career-guide/internal/workers/profile/profile-fetch"
	profilesave "career-guide/internal/workers/profile/profile-save"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
)

type workerDeps struct {
	db          *sql.DB
	cache       redis.Cmdable
	search      *elasticsearch.Client
	publisher   events.Publisher
	store       storage.Store
	generator   llm.Generator
	tables      *skillgap.Tables
	careerModel predictor.Predictor
	streamModel predictor.Predictor
	ses         awsclients.SESAPI
	log         logger.Logger
}

type workers struct {
	signup        *authsignup.Handler
	login         *authlogin.Handler
	predictCareer *predictcareer.Handler
	predictStream *predictstream.Handler
	jobInsights   *jobinsights.Handler
	coverLetter   *coverletter.Handler
	linkedInAudit *linkedinaudit.Handler
	mockInterview *mockinterview.Handler
	saveProfile   *profilesave.Handler
	fetchProfile  *profilefetch.Handler
	portfolio     *generateportfolio.Handler
	predictions   *searchpredictions.Handler
	email         *emailsend.Handler // nil unless SES is enabled
}

// workerTimeout returns the configured timeout for taskType, or def.
func workerTimeout(cfg *config.Config, taskType string, def time.Duration) time.Duration {
	if w, ok := cfg.Workers[taskType]; ok && w.Timeout > 0 {
		return config.GetDuration(w.Timeout)
	}
	return def
}

func buildWorkers(cfg *config.Config, d workerDeps) (*workers, error) {
	var (
		w   workers
		err error
	)

	var mailer authsignup.Mailer
	if d.ses != nil {
		c := emailsend.DefaultConfig()
		c.Timeout = workerTimeout(cfg, emailsend.TaskType, c.Timeout)
		c.DefaultFrom = cfg.Integrations.AWS.SES.FromEmail
		if w.email, err = emailsend.NewHandler(c, emailsend.ServiceDependencies{SES: d.ses, Logger: d.log}); err != nil {
			return nil, err
		}
		mailer = w.email
	}

	signupCfg := authsignup.DefaultConfig()
	signupCfg.Timeout = workerTimeout(cfg, authsignup.TaskType, signupCfg.Timeout)
	signupCfg.SendWelcomeEmail = mailer != nil
	if w.signup, err = authsignup.NewHandler(signupCfg, authsignup.ServiceDependencies{
		DB: d.db, Mailer: mailer, Events: d.publisher, Logger: d.log,
	}); err != nil {
		return nil, err
	}

	loginCfg := authlogin.DefaultConfig()
	loginCfg.Timeout = workerTimeout(cfg, authlogin.TaskType, loginCfg.Timeout)
	if w.login, err = authlogin.NewHandler(loginCfg, authlogin.ServiceDependencies{DB: d.db, Logger: d.log}); err != nil {
		return nil, err
	}

	careerCfg := predictcareer.DefaultConfig()
	careerCfg.Timeout = workerTimeout(cfg, predictcareer.TaskType, careerCfg.Timeout)
	careerCfg.PredictionIndex = cfg.Database.Elasticsearch.PredictionIndex
	if w.predictCareer, err = predictcareer.NewHandler(careerCfg, predictcareer.ServiceDependencies{
		Tables:    d.tables,
		Predictor: d.careerModel,
		DB:        d.db,
		Search:    d.search,
		Events:    d.publisher,
		Logger:    d.log,
	}); err != nil {
		return nil, err
	}

	streamCfg := predictstream.DefaultConfig()
	streamCfg.Timeout = workerTimeout(cfg, predictstream.TaskType, streamCfg.Timeout)
	if w.predictStream, err = predictstream.NewHandler(streamCfg, predictstream.ServiceDependencies{
		Predictor: d.streamModel, DB: d.db, Events: d.publisher, Logger: d.log,
	}); err != nil {
		return nil, err
	}

	adzuna := cfg.APIs.Adzuna
	jobsCfg := jobinsights.DefaultConfig()
	jobsCfg.Timeout = workerTimeout(cfg, jobinsights.TaskType, jobsCfg.Timeout)
	jobsCfg.BaseURL = adzuna.BaseURL
	jobsCfg.AppID = adzuna.AppID
	jobsCfg.AppKey = adzuna.AppKey
	jobsCfg.DefaultLocation = adzuna.DefaultLocation
	jobsCfg.ResultsPerPage = adzuna.ResultsPerPage
	jobsCfg.RequestTimeout = config.GetDuration(adzuna.Timeout)
	jobsCfg.CacheTTL = time.Duration(adzuna.CacheTTL) * time.Second
	if w.jobInsights, err = jobinsights.NewHandler(jobsCfg, jobinsights.ServiceDependencies{Cache: d.cache, Logger: d.log}); err != nil {
		return nil, err
	}

	coverCfg := coverletter.DefaultConfig()
	coverCfg.Timeout = workerTimeout(cfg, coverletter.TaskType, coverCfg.Timeout)
	if w.coverLetter, err = coverletter.NewHandler(coverCfg, coverletter.ServiceDependencies{LLM: d.generator, Logger: d.log}); err != nil {
		return nil, err
	}

	auditCfg := linkedinaudit.DefaultConfig()
	auditCfg.Timeout = workerTimeout(cfg, linkedinaudit.TaskType, auditCfg.Timeout)
	if w.linkedInAudit, err = linkedinaudit.NewHandler(auditCfg, linkedinaudit.ServiceDependencies{LLM: d.generator, Logger: d.log}); err != nil {
		return nil, err
	}

	interviewCfg := mockinterview.DefaultConfig()
	interviewCfg.Timeout = workerTimeout(cfg, mockinterview.TaskType, interviewCfg.Timeout)
	if w.mockInterview, err = mockinterview.NewHandler(interviewCfg, mockinterview.ServiceDependencies{LLM: d.generator, Logger: d.log}); err != nil {
		return nil, err
	}

	saveCfg := profilesave.DefaultConfig()
	saveCfg.Timeout = workerTimeout(cfg, profilesave.TaskType, saveCfg.Timeout)
	if w.saveProfile, err = profilesave.NewHandler(saveCfg, profilesave.ServiceDependencies{
		DB: d.db, Events: d.publisher, Logger: d.log,
	}); err != nil {
		return nil, err
	}

	fetchCfg := profilefetch.DefaultConfig()
	fetchCfg.Timeout = workerTimeout(cfg, profilefetch.TaskType, fetchCfg.Timeout)
	if w.fetchProfile, err = profilefetch.NewHandler(fetchCfg, profilefetch.ServiceDependencies{DB: d.db, Logger: d.log}); err != nil {
		return nil, err
	}

	portfolioCfg := generateportfolio.DefaultConfig()
	portfolioCfg.Timeout = workerTimeout(cfg, generateportfolio.TaskType, portfolioCfg.Timeout)
	if w.portfolio, err = generateportfolio.NewHandler(portfolioCfg, generateportfolio.ServiceDependencies{
		Store: d.store, Events: d.publisher, Logger: d.log,
	}); err != nil {
		return nil, err
	}

	searchCfg := searchpredictions.DefaultConfig()
	searchCfg.Timeout = workerTimeout(cfg, searchpredictions.TaskType, searchCfg.Timeout)
	searchCfg.Index = cfg.Database.Elasticsearch.PredictionIndex
	if w.predictions, err = searchpredictions.NewHandler(searchCfg, searchpredictions.ServiceDependencies{Search: d.search, Logger: d.log}); err != nil {
		return nil, err
	}

	return &w, nil
}

// bounded applies the worker timeout to HTTP calls, which otherwise only
// carry the request context.
func bounded[I any, O any](timeout time.Duration, exec camunda.Executor[I, O]) camunda.Executor[I, O] {
	return func(ctx context.Context, input *I) (*O, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return exec(ctx, input)
	}
}

func (w *workers) apiDependencies() api.Dependencies {
	return api.Dependencies{
		Signup:            bounded(w.signup.Timeout(), w.signup.Execute),
		Login:             bounded(w.login.Timeout(), w.login.Execute),
		PredictCareer:     bounded(w.predictCareer.Timeout(), w.predictCareer.Execute),
		PredictStream:     bounded(w.predictStream.Timeout(), w.predictStream.Execute),
		JobInsights:       bounded(w.jobInsights.Timeout(), w.jobInsights.Execute),
		CoverLetter:       bounded(w.coverLetter.Timeout(), w.coverLetter.Execute),
		SaveProfile:       bounded(w.saveProfile.Timeout(), w.saveProfile.Execute),
		FetchProfile:      bounded(w.fetchProfile.Timeout(), w.fetchProfile.Execute),
		AuditLinkedIn:     bounded(w.linkedInAudit.Timeout(), w.linkedInAudit.Execute),
		MockInterview:     bounded(w.mockInterview.Timeout(), w.mockInterview.Execute),
		GeneratePortfolio: bounded(w.portfolio.Timeout(), w.portfolio.Execute),
		SearchPredictions: bounded(w.predictions.Timeout(), w.predictions.Execute),
	}
}

// register opens a Zeebe job worker for every enabled task type.
func (w *workers) register(client zbc.Client, cfg *config.Config, obs *observability.Observability, log logger.Logger) []worker.JobWorker {
	handlers := map[string]camunda.JobHandler{
		authsignup.TaskType:        w.signup,
		authlogin.TaskType:         w.login,
		predictcareer.TaskType:     w.predictCareer,
		predictstream.TaskType:     w.predictStream,
		jobinsights.TaskType:       w.jobInsights,
		coverletter.TaskType:       w.coverLetter,
		linkedinaudit.TaskType:     w.linkedInAudit,
		mockinterview.TaskType:     w.mockInterview,
		profilesave.TaskType:       w.saveProfile,
		profilefetch.TaskType:      w.fetchProfile,
		generateportfolio.TaskType: w.portfolio,
		searchpredictions.TaskType: w.predictions,
	}
	if w.email != nil {
		handlers[emailsend.TaskType] = w.email
	}

	var opened []worker.JobWorker
	for taskType, h := range handlers {
		h = observedJob{taskType: taskType, next: h, obs: obs}
		if jw := camunda.RegisterJob(client, taskType, config.GetWorkerConfig(cfg, taskType), h, log); jw != nil {
			opened = append(opened, jw)
		}
	}
	return opened
}

// observedJob records each Zeebe job on the otel meters. Jobs run on their
// own context inside camunda.HandleJob, so no span is opened here.
type observedJob struct {
	taskType string
	next     camunda.JobHandler
	obs      *observability.Observability
}

func (o observedJob) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	o.next.Handle(client, job)

	ctx := context.Background()
	o.obs.RecordJobProcessed(ctx, o.taskType)
	o.obs.RecordJobDuration(ctx, time.Since(start), o.taskType)
}

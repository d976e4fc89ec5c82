package main

import (
	"context"
	"fmt"

	"github.com/Shashank26122003/entnt-assignment/internal/seed"
	"github.com/Shashank26122003/entnt-assignment/pkg/config"
	"github.com/Shashank26122003/entnt-assignment/pkg/crosstab"
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/logx"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage/storageinfra"
	"github.com/Shashank26122003/entnt-assignment/pkg/store"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment/assessmentapi"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment/assessmentsrv"
	"github.com/Shashank26122003/entnt-assignment/recruitment/candidate"
	"github.com/Shashank26122003/entnt-assignment/recruitment/candidate/candidateapi"
	"github.com/Shashank26122003/entnt-assignment/recruitment/candidate/candidatesrv"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job/jobapi"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job/jobsrv"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	Storage storage.Facility
	Channel *crosstab.Channel

	// Recruitment Services
	JobService        *jobsrv.JobService
	CandidateService  *candidatesrv.CandidateService
	AssessmentService *assessmentsrv.AssessmentService

	// API Handlers
	JobHandlers        *jobapi.Handlers
	CandidateHandlers  *candidateapi.Handlers
	AssessmentHandlers *assessmentapi.Handlers
}

// NewContainer initializes the dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}
	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}
	if err := c.initServices(ctx); err != nil {
		_ = c.Storage.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	// 1. Storage facility
	facility, err := openStorage(ctx, c.Config)
	if err != nil {
		return err
	}
	if prefix := c.Config.Storage.KeyPrefix; prefix != "" {
		facility = storage.WithPrefix(facility, prefix)
	}
	c.Storage = facility

	pingCtx, cancel := context.WithTimeout(ctx, c.Config.Storage.Timeout)
	defer cancel()
	if err := c.Storage.Ping(pingCtx); err != nil {
		logx.Warnf("Storage backend %s is not reachable yet: %v", c.Config.Storage.Backend, err)
	}

	// 2. Cross-context change feed
	c.Channel = crosstab.New(c.Storage)
	if err := c.Channel.Start(ctx); err != nil {
		_ = c.Storage.Close()
		return err
	}
	if c.Config.Storage.Backend == "s3" {
		go c.Channel.Tick(ctx, c.Config.S3.RefreshInterval)
	}

	logx.Infof("Storage backend %s ready (origin %s)", c.Config.Storage.Backend, c.Storage.Origin())
	return nil
}

func (c *Container) initServices(ctx context.Context) error {
	policy, err := job.ParseDeletePolicy(c.Config.Hiring.JobDeletePolicy)
	if err != nil {
		return err
	}
	enforce := c.Config.Hiring.EnforceJobReference

	// --- Collections ---
	jobs := store.NewCollection[job.Job](c.Storage, kernel.CollectionJobs)
	candidates := store.NewCollection[candidate.Candidate](c.Storage, kernel.CollectionCandidates)
	assessments := store.NewCollection[assessment.Assessment](c.Storage, kernel.CollectionAssessments)

	// --- Recruitment Services ---
	c.JobService = jobsrv.NewJobService(jobs, policy)
	c.CandidateService = candidatesrv.NewCandidateService(candidates, c.JobService, enforce)
	c.AssessmentService = assessmentsrv.NewAssessmentService(assessments, c.JobService, enforce, nil)
	c.JobService.WithDependents(c.CandidateService, c.AssessmentService)

	c.JobService.Start(ctx, c.Channel)
	c.CandidateService.Start(ctx, c.Channel)
	c.AssessmentService.Start(ctx, c.Channel)

	// --- API Handlers ---
	c.JobHandlers = jobapi.NewHandlers(c.JobService)
	c.CandidateHandlers = candidateapi.NewHandlers(c.CandidateService)
	c.AssessmentHandlers = assessmentapi.NewHandlers(c.AssessmentService)

	logx.Infof("Services ready (job delete policy %s, enforce job reference %t)", policy, enforce)
	return nil
}

// Seed applies fixtures from path to empty collections
func (c *Container) Seed(ctx context.Context, path string) error {
	fixtures, err := seed.LoadFile(path)
	if err != nil {
		return err
	}
	_, err = seed.Apply(ctx, fixtures, seed.Services{
		Jobs:        c.JobService,
		Candidates:  c.CandidateService,
		Assessments: c.AssessmentService,
	})
	return err
}

// Close unsubscribes the services and releases the storage backend
func (c *Container) Close() {
	c.AssessmentService.Close()
	c.CandidateService.Close()
	c.JobService.Close()
	c.Channel.Close()
	if err := c.Storage.Close(); err != nil {
		logx.Warnf("Failed to close storage: %v", err)
	}
}

// openStorage connects the configured backend and prepares its schema
func openStorage(ctx context.Context, cfg *config.Config) (storage.Facility, error) {
	timeout := cfg.Storage.Timeout

	switch cfg.Storage.Backend {
	case "memory":
		logx.Warn("Using in-memory storage; data is lost on exit")
		return storageinfra.NewMemoryHub().Context(), nil

	case "sqlite":
		db, err := storageinfra.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		s := storageinfra.NewSQLiteStorage(db, cfg.SQLite.PollInterval)
		migrateCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := s.Migrate(migrateCtx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return s, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return storageinfra.NewRedisStorage(client, cfg.Redis.Channel), nil

	case "postgres":
		db, err := sqlx.Connect("postgres", cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnLifetime)

		s := storageinfra.NewPostgresStorage(db, cfg.Postgres.DSN, cfg.Postgres.NotifyChannel)
		migrateCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := s.Migrate(migrateCtx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return s, nil

	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3.Region))
		if err != nil {
			return nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		logx.Warnf("S3 storage has no change feed; views refresh every %s", cfg.S3.RefreshInterval)
		return storageinfra.NewS3Storage(s3.NewFromConfig(awsCfg), cfg.S3.Bucket, cfg.S3.Prefix), nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

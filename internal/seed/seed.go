// Package seed loads demo fixtures into empty collections at startup.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/logx"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment/assessmentsrv"
	"github.com/Shashank26122003/entnt-assignment/recruitment/candidate"
	"github.com/Shashank26122003/entnt-assignment/recruitment/candidate/candidatesrv"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job/jobsrv"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML document layout. Candidates and assessments name
// their job by the fixture key of a job, or by its title when the job
// already exists. Keys of jobs that were seeded earlier resolve through the
// title of their fixture.
type Fixtures struct {
	Jobs        []JobFixture        `yaml:"jobs"`
	Candidates  []CandidateFixture  `yaml:"candidates"`
	Assessments []AssessmentFixture `yaml:"assessments"`
}

type JobFixture struct {
	Key                  string `yaml:"key"`
	job.CreateJobRequest `yaml:",inline"`
}

type CandidateFixture struct {
	Job             string                 `yaml:"job"`
	Name            kernel.CandidateName   `yaml:"name"`
	ApplicationDate kernel.ApplicationDate `yaml:"applicationDate"`
	ResumeURL       kernel.ResumeURL       `yaml:"resumeUrl"`
	Status          candidate.Status       `yaml:"status"`
}

type AssessmentFixture struct {
	Job       string                 `yaml:"job"`
	Title     kernel.AssessmentTitle `yaml:"title"`
	Questions []string               `yaml:"questions"`
}

// Parse decodes fixtures, rejecting unknown fields.
func Parse(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// LoadFile reads fixtures from path.
func LoadFile(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Services are the managers fixtures are written through.
type Services struct {
	Jobs        *jobsrv.JobService
	Candidates  *candidatesrv.CandidateService
	Assessments *assessmentsrv.AssessmentService
}

// Result counts the records created by Apply.
type Result struct {
	Jobs        int
	Candidates  int
	Assessments int
}

// Apply writes each fixture group into its collection when that collection
// is empty. Groups whose collection already holds records are skipped, so
// applying twice is harmless.
func Apply(ctx context.Context, f *Fixtures, svc Services) (Result, error) {
	var res Result
	keys := make(map[string]kernel.JobID)

	existing := svc.Jobs.Refresh(ctx)
	if len(existing) == 0 {
		for i, jf := range f.Jobs {
			created, err := svc.Jobs.Create(ctx, jf.CreateJobRequest)
			if err != nil {
				return res, fmt.Errorf("job fixture %d (%s): %w", i, jf.Key, err)
			}
			if jf.Key != "" {
				keys[jf.Key] = created.ID
			}
			res.Jobs++
		}
	} else {
		logx.Infof("seed: jobs collection holds %d records, skipping job fixtures", len(existing))
		for _, jf := range f.Jobs {
			if jf.Key == "" {
				continue
			}
			for _, j := range existing {
				if j.Title == jf.Title {
					keys[jf.Key] = j.ID
					break
				}
			}
		}
	}

	resolve := func(ref string) (kernel.JobID, error) {
		if id, ok := keys[ref]; ok {
			return id, nil
		}
		for _, j := range svc.Jobs.List() {
			if string(j.Title) == ref {
				return j.ID, nil
			}
		}
		return 0, fmt.Errorf("unknown job %q", ref)
	}

	if len(svc.Candidates.List(ctx)) == 0 {
		for i, cf := range f.Candidates {
			jobID, err := resolve(cf.Job)
			if err != nil {
				return res, fmt.Errorf("candidate fixture %d: %w", i, err)
			}
			if _, err := svc.Candidates.Create(ctx, candidate.CreateCandidateRequest{
				JobID:           jobID,
				Name:            cf.Name,
				ApplicationDate: cf.ApplicationDate,
				ResumeURL:       cf.ResumeURL,
				Status:          cf.Status,
			}); err != nil {
				return res, fmt.Errorf("candidate fixture %d: %w", i, err)
			}
			res.Candidates++
		}
	}

	if len(svc.Assessments.Refresh(ctx)) == 0 {
		for i, af := range f.Assessments {
			jobID, err := resolve(af.Job)
			if err != nil {
				return res, fmt.Errorf("assessment fixture %d: %w", i, err)
			}
			if _, err := svc.Assessments.Create(ctx, assessment.CreateAssessmentRequest{
				JobID:     jobID,
				Title:     af.Title,
				Questions: af.Questions,
			}); err != nil {
				return res, fmt.Errorf("assessment fixture %d: %w", i, err)
			}
			res.Assessments++
		}
	}

	logx.Infof("seed: created %d jobs, %d candidates, %d assessments", res.Jobs, res.Candidates, res.Assessments)
	return res, nil
}

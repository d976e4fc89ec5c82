package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage/storageinfra"
	"github.com/Shashank26122003/entnt-assignment/pkg/store"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment/assessmentsrv"
	"github.com/Shashank26122003/entnt-assignment/recruitment/candidate"
	"github.com/Shashank26122003/entnt-assignment/recruitment/candidate/candidatesrv"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job/jobsrv"
)

func newServices(t *testing.T, s storage.Storage) Services {
	t.Helper()
	ctx := context.Background()

	jobs := jobsrv.NewJobService(store.NewCollection[job.Job](s, kernel.CollectionJobs), job.DeletePolicyOrphan)
	jobs.Start(ctx, nil)
	candidates := candidatesrv.NewCandidateService(store.NewCollection[candidate.Candidate](s, kernel.CollectionCandidates), jobs, true)
	candidates.Start(ctx, nil)
	assessments := assessmentsrv.NewAssessmentService(store.NewCollection[assessment.Assessment](s, kernel.CollectionAssessments), jobs, true, nil)
	assessments.Start(ctx, nil)

	t.Cleanup(func() {
		jobs.Close()
		candidates.Close()
		assessments.Close()
	})
	return Services{Jobs: jobs, Candidates: candidates, Assessments: assessments}
}

func TestApplyFixturesFile(t *testing.T) {
	f, err := LoadFile("../../fixtures/seed.yaml")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	svc := newServices(t, storageinfra.NewMemoryHub().Context())

	res, err := Apply(ctx, f, svc)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := Result{Jobs: 2, Candidates: 3, Assessments: 2}
	if res != want {
		t.Errorf("result = %+v, want %+v", res, want)
	}

	var frontend kernel.JobID
	for _, j := range svc.Jobs.List() {
		if j.Title == "Frontend Developer" {
			frontend = j.ID
		}
	}
	scoped := svc.Candidates.ListForJob(ctx, frontend)
	if len(scoped) != 2 || scoped[0].Status != candidate.StatusUnderReview || scoped[1].Status != candidate.StatusInterviewScheduled {
		t.Errorf("frontend candidates = %+v", scoped)
	}

	again, err := Apply(ctx, f, svc)
	if err != nil {
		t.Fatal(err)
	}
	if again != (Result{}) {
		t.Errorf("second Apply created %+v", again)
	}
}

func TestApplyRefillsEmptiedCollectionByJobKey(t *testing.T) {
	f, err := LoadFile("../../fixtures/seed.yaml")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	hub := storageinfra.NewMemoryHub()

	first := newServices(t, hub.Context())
	if _, err := Apply(ctx, f, first); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for _, c := range first.Candidates.List(ctx) {
		if err := first.Candidates.Delete(ctx, c.ID); err != nil {
			t.Fatal(err)
		}
	}

	restarted := newServices(t, hub.Context())
	res, err := Apply(ctx, f, restarted)
	if err != nil {
		t.Fatalf("Apply after restart: %v", err)
	}
	if want := (Result{Candidates: 3}); res != want {
		t.Errorf("result = %+v, want %+v", res, want)
	}

	titles := make(map[kernel.JobID]kernel.JobTitle)
	for _, j := range restarted.Jobs.List() {
		titles[j.ID] = j.Title
	}
	for _, c := range restarted.Candidates.List(ctx) {
		if _, ok := titles[c.JobID]; !ok {
			t.Errorf("candidate %s references unknown job %s", c.Name, c.JobID)
		}
	}
}

func TestApplyResolvesExistingJobsByTitle(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t, storageinfra.NewMemoryHub().Context())
	existing, err := svc.Jobs.Create(ctx, job.CreateJobRequest{Title: "Designer"})
	if err != nil {
		t.Fatal(err)
	}

	f, err := Parse(strings.NewReader(`
candidates:
  - job: Designer
    name: Dana
`))
	if err != nil {
		t.Fatal(err)
	}
	res, err := Apply(ctx, f, svc)
	if err != nil {
		t.Fatal(err)
	}
	if res.Candidates != 1 {
		t.Fatalf("result = %+v", res)
	}
	if got := svc.Candidates.List(ctx); got[0].JobID != existing.ID {
		t.Errorf("candidate jobId = %s, want %s", got[0].JobID, existing.ID)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "jobs:\n  - key: a\n    title: T\n    pay: 10\n"},
		{"wrong shape", "jobs: nope\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.doc)); err == nil {
				t.Error("Parse succeeded, want error")
			}
		})
	}

	f, err := Parse(strings.NewReader(""))
	if err != nil || len(f.Jobs) != 0 {
		t.Errorf("empty document = %+v, %v", f, err)
	}
}

func TestApplyUnknownJobReference(t *testing.T) {
	svc := newServices(t, storageinfra.NewMemoryHub().Context())
	f := &Fixtures{Assessments: []AssessmentFixture{{Job: "ghost", Title: "x"}}}

	if _, err := Apply(context.Background(), f, svc); err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("err = %v, want unknown job error", err)
	}
}

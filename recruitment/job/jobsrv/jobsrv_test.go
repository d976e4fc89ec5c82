package jobsrv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Shashank26122003/entnt-assignment/pkg/crosstab"
	"github.com/Shashank26122003/entnt-assignment/pkg/errx"
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage/storageinfra"
	"github.com/Shashank26122003/entnt-assignment/pkg/store"
	"github.com/Shashank26122003/entnt-assignment/pkg/validatex"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job"
)

func newService(t *testing.T, s storage.Storage, policy job.DeletePolicy) *JobService {
	t.Helper()
	svc := NewJobService(store.NewCollection[job.Job](s, kernel.CollectionJobs), policy)
	svc.Start(context.Background(), nil)
	t.Cleanup(svc.Close)
	return svc
}

func ptr[T any](v T) *T { return &v }

type fakeDependent struct {
	counts  map[kernel.JobID]int
	deleted []kernel.JobID
	err     error
}

func (f *fakeDependent) Collection() kernel.CollectionName { return kernel.CollectionCandidates }

func (f *fakeDependent) CountByJob(_ context.Context, id kernel.JobID) (int, error) {
	return f.counts[id], f.err
}

func (f *fakeDependent) DeleteByJob(_ context.Context, id kernel.JobID) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.deleted = append(f.deleted, id)
	n := f.counts[id]
	delete(f.counts, id)
	return n, nil
}

func TestCreateJob(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, storageinfra.NewMemoryHub().Context(), job.DeletePolicyOrphan)

	created, err := svc.Create(ctx, job.CreateJobRequest{
		Title:    "Backend Engineer",
		Location: "Remote",
		Salary:   "100k",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID.IsEmpty() || created.Candidates != 0 {
		t.Errorf("created = %+v, want fresh id and zero candidates", created)
	}

	list := svc.List()
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("List = %+v, want the created job", list)
	}
}

func TestCreateJobRequiresTitle(t *testing.T) {
	svc := newService(t, storageinfra.NewMemoryHub().Context(), job.DeletePolicyOrphan)

	_, err := svc.Create(context.Background(), job.CreateJobRequest{Location: "Remote"})
	if !errx.IsCode(err, validatex.CodeValidationFailed) {
		t.Fatalf("err = %v, want validation failure", err)
	}
	if len(svc.List()) != 0 {
		t.Error("invalid job was stored")
	}
}

func TestUpdateJobPreservesIDAndCandidates(t *testing.T) {
	ctx := context.Background()
	s := storageinfra.NewMemoryHub().Context()
	if err := s.SetItem(ctx, "jobs", `[{"id":5,"title":"Old","description":"d","location":"l","salary":"1","candidates":3}]`); err != nil {
		t.Fatal(err)
	}
	svc := newService(t, s, job.DeletePolicyOrphan)

	updated, err := svc.Update(ctx, 5, job.UpdateJobRequest{
		Title:  ptr(kernel.JobTitle("New")),
		Salary: ptr(kernel.JobSalary("2")),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := job.Job{ID: 5, Title: "New", Description: "d", Location: "l", Salary: "2", Candidates: 3}
	if *updated != want {
		t.Errorf("updated = %+v, want %+v", *updated, want)
	}
	if got, _ := svc.Get(ctx, 5); *got != want {
		t.Errorf("persisted = %+v, want %+v", *got, want)
	}
}

func TestUnknownJobIsNotFoundAndNoWrite(t *testing.T) {
	ctx := context.Background()
	s := storageinfra.NewMemoryHub().Context()
	const before = `[{"id":1,"title":"Only","description":"","location":"","salary":"","candidates":0}]`
	if err := s.SetItem(ctx, "jobs", before); err != nil {
		t.Fatal(err)
	}
	svc := newService(t, s, job.DeletePolicyOrphan)

	tests := []struct {
		name string
		call func() error
	}{
		{"update", func() error {
			_, err := svc.Update(ctx, 99, job.UpdateJobRequest{Title: ptr(kernel.JobTitle("x"))})
			return err
		}},
		{"delete", func() error { return svc.Delete(ctx, 99) }},
		{"get", func() error {
			_, err := svc.Get(ctx, 99)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, job.ErrJobNotFound()) {
				t.Fatalf("err = %v, want JOB.NOT_FOUND", err)
			}
			if raw, _, _ := s.GetItem(ctx, "jobs"); raw != before {
				t.Errorf("collection changed to %s", raw)
			}
		})
	}
}

func TestDeleteLastJobPersistsEmpty(t *testing.T) {
	ctx := context.Background()
	s := storageinfra.NewMemoryHub().Context()
	svc := newService(t, s, job.DeletePolicyOrphan)

	created, err := svc.Create(ctx, job.CreateJobRequest{Title: "Solo"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if raw, _, _ := s.GetItem(ctx, "jobs"); raw != "[]" {
		t.Errorf("persisted %q, want []", raw)
	}
	if len(svc.List()) != 0 {
		t.Error("view still holds the deleted job")
	}
}

func TestDeletePolicies(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		policy      job.DeletePolicy
		wantCode    errx.Code
		wantJobLeft bool
		wantDeleted bool
	}{
		{name: "orphan leaves dependents", policy: job.DeletePolicyOrphan},
		{name: "restrict refuses", policy: job.DeletePolicyRestrict, wantCode: job.CodeJobHasDependents, wantJobLeft: true},
		{name: "cascade removes dependents", policy: job.DeletePolicyCascade, wantDeleted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, storageinfra.NewMemoryHub().Context(), tt.policy)
			created, err := svc.Create(ctx, job.CreateJobRequest{Title: "Referenced"})
			if err != nil {
				t.Fatal(err)
			}
			dep := &fakeDependent{counts: map[kernel.JobID]int{created.ID: 2}}
			svc.WithDependents(dep)

			err = svc.Delete(ctx, created.ID)
			if tt.wantCode != "" {
				if !errx.IsCode(err, tt.wantCode) {
					t.Fatalf("err = %v, want %s", err, tt.wantCode)
				}
			} else if err != nil {
				t.Fatalf("Delete: %v", err)
			}

			if ok, _ := svc.Exists(ctx, created.ID); ok != tt.wantJobLeft {
				t.Errorf("job exists = %v, want %v", ok, tt.wantJobLeft)
			}
			if got := len(dep.deleted) > 0; got != tt.wantDeleted {
				t.Errorf("dependents deleted = %v, want %v", got, tt.wantDeleted)
			}
		})
	}
}

func TestCascadeReportsCleanupFailure(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, storageinfra.NewMemoryHub().Context(), job.DeletePolicyCascade)
	created, err := svc.Create(ctx, job.CreateJobRequest{Title: "Referenced"})
	if err != nil {
		t.Fatal(err)
	}
	svc.WithDependents(&fakeDependent{err: errors.New("backend down")})

	err = svc.Delete(ctx, created.ID)
	if !errx.IsCode(err, job.CodeDependentCleanupFail) {
		t.Fatalf("err = %v, want DEPENDENT_CLEANUP_FAILED", err)
	}
}

func TestTitleFallsBackToPlaceholder(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, storageinfra.NewMemoryHub().Context(), job.DeletePolicyOrphan)
	created, err := svc.Create(ctx, job.CreateJobRequest{Title: "Designer"})
	if err != nil {
		t.Fatal(err)
	}

	if title, ok := svc.Title(ctx, created.ID); !ok || title != "Designer" {
		t.Errorf("Title(known) = %q, %v", title, ok)
	}
	if title, ok := svc.Title(ctx, 42); ok || title != kernel.UnknownJobTitle {
		t.Errorf("Title(unknown) = %q, %v, want %q, false", title, ok, kernel.UnknownJobTitle)
	}
}

func TestViewFollowsOtherContexts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := storageinfra.NewMemoryHub()
	a, b := hub.Context(), hub.Context()

	writer := newService(t, a, job.DeletePolicyOrphan)

	ch := crosstab.New(b)
	if err := ch.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer ch.Close()
	reader := NewJobService(store.NewCollection[job.Job](b, kernel.CollectionJobs), job.DeletePolicyOrphan)
	reader.Start(ctx, ch)
	defer reader.Close()

	created, err := writer.Create(ctx, job.CreateJobRequest{Title: "Shared"})
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if list := reader.List(); len(list) == 1 && list[0].ID == created.ID {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("reader view = %+v, never saw job %s", reader.List(), created.ID)
}

func TestParseDeletePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    job.DeletePolicy
		wantErr bool
	}{
		{"", job.DeletePolicyOrphan, false},
		{"Restrict", job.DeletePolicyRestrict, false},
		{" cascade ", job.DeletePolicyCascade, false},
		{"nuke", "", true},
	}
	for _, tt := range tests {
		got, err := job.ParseDeletePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDeletePolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
}

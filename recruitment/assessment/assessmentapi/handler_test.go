package assessmentapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shashank26122003/entnt-assignment/pkg/errx"
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage/storageinfra"
	"github.com/Shashank26122003/entnt-assignment/pkg/store"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment/assessmentsrv"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job/jobsrv"
	"github.com/gofiber/fiber/v2"
)

type fixture struct {
	app  *fiber.App
	jobs *jobsrv.JobService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	s := storageinfra.NewMemoryHub().Context()

	jobs := jobsrv.NewJobService(store.NewCollection[job.Job](s, kernel.CollectionJobs), job.DeletePolicyOrphan)
	jobs.Start(ctx, nil)
	t.Cleanup(jobs.Close)

	svc := assessmentsrv.NewAssessmentService(
		store.NewCollection[assessment.Assessment](s, kernel.CollectionAssessments),
		jobs,
		false,
		assessmentsrv.NewDraftBook(0),
	)
	svc.Start(ctx, nil)
	t.Cleanup(svc.Close)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errors.As(err, &e) {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	RegisterRoutes(app, NewHandlers(svc))
	return fixture{app: app, jobs: jobs}
}

func do(t *testing.T, app *fiber.App, method, target, body string, out any) int {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, target, err)
		}
	}
	return resp.StatusCode
}

func TestDraftWorkflow(t *testing.T) {
	f := newFixture(t)
	eng, err := f.jobs.Create(context.Background(), job.CreateJobRequest{Title: "Engineer"})
	if err != nil {
		t.Fatal(err)
	}

	var draft assessment.DraftView
	if status := do(t, f.app, http.MethodPost, "/assesments/drafts", "", &draft); status != http.StatusCreated {
		t.Fatalf("open status = %d", status)
	}
	base := "/assesments/drafts/" + draft.ID

	var errResp errx.HTTPResponse
	if status := do(t, f.app, http.MethodPost, base+"/questions", `{"text":"  "}`, &errResp); status != http.StatusBadRequest {
		t.Errorf("blank question status = %d", status)
	}
	if errResp.Code != assessment.CodeEmptyQuestion {
		t.Errorf("code = %s", errResp.Code)
	}

	for _, q := range []string{"Explain channels", "Explain interfaces", "Explain generics"} {
		if status := do(t, f.app, http.MethodPost, base+"/questions", `{"text":"`+q+`"}`, &draft); status != http.StatusOK {
			t.Fatalf("add %q status = %d", q, status)
		}
	}
	if status := do(t, f.app, http.MethodDelete, base+"/questions/1", "", &draft); status != http.StatusOK {
		t.Fatalf("remove status = %d", status)
	}
	if status := do(t, f.app, http.MethodDelete, base+"/questions/9", "", nil); status != http.StatusBadRequest {
		t.Errorf("remove out of range status = %d", status)
	}

	body := `{"jobId":` + eng.ID.String() + `,"title":"Go screening"}`
	if status := do(t, f.app, http.MethodPut, base, body, &draft); status != http.StatusOK {
		t.Fatalf("update draft status = %d", status)
	}
	if draft.JobID != eng.ID || len(draft.Questions) != 2 || draft.Questions[1] != "Explain generics" {
		t.Errorf("draft = %+v", draft)
	}

	var saved assessment.Assessment
	if status := do(t, f.app, http.MethodPost, base+"/commit", "", &saved); status != http.StatusOK {
		t.Fatalf("commit status = %d", status)
	}
	if status := do(t, f.app, http.MethodGet, base, "", nil); status != http.StatusNotFound {
		t.Errorf("committed draft still served: %d", status)
	}

	var list assessment.ListAssessmentsResponse
	if status := do(t, f.app, http.MethodGet, "/assesments", "", &list); status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if list.Total != 1 || list.Assessments[0].JobTitle != "Engineer" || list.Assessments[0].QuestionCount != 2 {
		t.Errorf("list = %+v", list)
	}

	var edit assessment.DraftView
	if status := do(t, f.app, http.MethodPost, "/assesments/drafts?from="+saved.ID.String(), "", &edit); status != http.StatusCreated {
		t.Fatalf("edit open status = %d", status)
	}
	if edit.Editing == nil || *edit.Editing != saved.ID {
		t.Errorf("edit draft = %+v", edit)
	}
	if status := do(t, f.app, http.MethodDelete, "/assesments/drafts/"+edit.ID, "", nil); status != http.StatusNoContent {
		t.Errorf("discard status = %d", status)
	}
}

func TestAssessmentCRUD(t *testing.T) {
	f := newFixture(t)

	var errResp errx.HTTPResponse
	if status := do(t, f.app, http.MethodPost, "/assesments", `{"title":"No job"}`, &errResp); status != http.StatusBadRequest {
		t.Errorf("create without job status = %d", status)
	}
	if errResp.Code != assessment.CodeJobRequired {
		t.Errorf("code = %s", errResp.Code)
	}

	var created assessment.Assessment
	if status := do(t, f.app, http.MethodPost, "/assesments", `{"jobId":3,"title":"Quiz","questions":["q1"]}`, &created); status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}

	var updated assessment.Assessment
	target := "/assesments/" + created.ID.String()
	if status := do(t, f.app, http.MethodPut, target, `{"questions":[]}`, &updated); status != http.StatusOK {
		t.Fatalf("update status = %d", status)
	}
	if updated.ID != created.ID || updated.Title != "Quiz" || updated.Questions == nil || len(updated.Questions) != 0 {
		t.Errorf("updated = %+v", updated)
	}

	if status := do(t, f.app, http.MethodDelete, target, "", nil); status != http.StatusNoContent {
		t.Errorf("delete status = %d", status)
	}
	if status := do(t, f.app, http.MethodDelete, target, "", nil); status != http.StatusNotFound {
		t.Errorf("second delete status = %d", status)
	}
}

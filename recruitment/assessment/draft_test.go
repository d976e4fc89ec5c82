package assessment

import (
	"errors"
	"reflect"
	"testing"
)

func TestAddQuestion(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []string
		wantErr error
	}{
		{"appends trimmed", "  What is a goroutine?  ", []string{"What is a goroutine?"}, nil},
		{"rejects empty", "", []string{}, ErrEmptyQuestion()},
		{"rejects whitespace", " \t\n", []string{}, ErrEmptyQuestion()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft()
			err := d.AddQuestion(tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got := d.Questions(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("questions = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddThenRemoveRestoresDraft(t *testing.T) {
	d := NewDraft()
	if err := d.AddQuestion("Q0"); err != nil {
		t.Fatal(err)
	}
	before := d.Questions()

	if err := d.AddQuestion("Q1"); err != nil {
		t.Fatal(err)
	}
	if err := d.RemoveQuestion(1); err != nil {
		t.Fatal(err)
	}
	if got := d.Questions(); !reflect.DeepEqual(got, before) {
		t.Errorf("questions = %q, want %q", got, before)
	}
}

func TestRemoveQuestionOutOfRange(t *testing.T) {
	d := NewDraft()
	_ = d.AddQuestion("only")

	for _, idx := range []int{-1, 1, 5} {
		if err := d.RemoveQuestion(idx); !errors.Is(err, ErrQuestionIndex()) {
			t.Errorf("RemoveQuestion(%d) err = %v", idx, err)
		}
	}
	if len(d.Questions()) != 1 {
		t.Error("draft changed on a rejected removal")
	}
}

func TestEditDraftDoesNotAlias(t *testing.T) {
	a := Assessment{ID: 9, JobID: 3, Title: "Go basics", Questions: []string{"a", "b"}}
	d := EditDraft(a)

	if err := d.RemoveQuestion(0); err != nil {
		t.Fatal(err)
	}
	if err := d.AddQuestion("c"); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Questions, []string{"a", "b"}) {
		t.Errorf("source assessment changed: %q", a.Questions)
	}

	id, editing := d.Editing()
	if !editing || id != 9 {
		t.Errorf("Editing() = %v, %v", id, editing)
	}

	req := d.UpdateRequest()
	if *req.JobID != 3 || *req.Title != "Go basics" || !reflect.DeepEqual(*req.Questions, []string{"b", "c"}) {
		t.Errorf("UpdateRequest = %+v", req)
	}
}

func TestResetClearsDraft(t *testing.T) {
	d := EditDraft(Assessment{ID: 1, JobID: 2, Title: "T", Questions: []string{"q"}})
	d.Reset()

	if _, editing := d.Editing(); editing {
		t.Error("still editing after Reset")
	}
	if d.JobID() != 0 || d.Title() != "" || len(d.Questions()) != 0 || d.Questions() == nil {
		t.Errorf("draft after Reset = %+v", d.View("x"))
	}
}

func TestNewAssessmentRules(t *testing.T) {
	if _, err := New(CreateAssessmentRequest{Title: "No job"}); !errors.Is(err, ErrJobRequired()) {
		t.Errorf("missing job err = %v", err)
	}
	if _, err := New(CreateAssessmentRequest{JobID: 1, Questions: []string{"ok", "  "}}); !errors.Is(err, ErrEmptyQuestion()) {
		t.Errorf("blank question err = %v", err)
	}

	a, err := New(CreateAssessmentRequest{JobID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if a.Questions == nil || a.Title != "" {
		t.Errorf("assessment = %+v, want empty title and non-nil questions", a)
	}
}

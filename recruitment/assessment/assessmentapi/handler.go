package assessmentapi

import (
	"strconv"

	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/validatex"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment"
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment/assessmentsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for assessment operations
type Handlers struct {
	service *assessmentsrv.AssessmentService
}

// NewHandlers creates a new assessment handlers instance
func NewHandlers(service *assessmentsrv.AssessmentService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// ListAssessments returns assessment cards with their job titles
// GET /assesments
func (h *Handlers) ListAssessments(c *fiber.Ctx) error {
	cards := h.service.ListView(c.UserContext())
	return c.JSON(assessment.ListAssessmentsResponse{
		Assessments: cards,
		Total:       len(cards),
	})
}

// GetAssessment retrieves an assessment by ID
// GET /assesments/:id
func (h *Handlers) GetAssessment(c *fiber.Ctx) error {
	id, err := parseAssessmentID(c.Params("id"))
	if err != nil {
		return err
	}

	found, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(found)
}

// CreateAssessment creates an assessment in one request
// POST /assesments
func (h *Handlers) CreateAssessment(c *fiber.Ctx) error {
	var req assessment.CreateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.ErrInvalidBody().WithDetail("parse_error", err.Error())
	}

	created, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateAssessment replaces the given fields of an assessment
// PUT /assesments/:id
func (h *Handlers) UpdateAssessment(c *fiber.Ctx) error {
	id, err := parseAssessmentID(c.Params("id"))
	if err != nil {
		return err
	}

	var req assessment.UpdateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.ErrInvalidBody().WithDetail("parse_error", err.Error())
	}

	updated, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// DeleteAssessment removes an assessment
// DELETE /assesments/:id
func (h *Handlers) DeleteAssessment(c *fiber.Ctx) error {
	id, err := parseAssessmentID(c.Params("id"))
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================================
// Drafts
// ============================================================================

// OpenDraft starts an editing session, optionally from an existing assessment
// POST /assesments/drafts?from=<id>
func (h *Handlers) OpenDraft(c *fiber.Ctx) error {
	var from kernel.AssessmentID
	if raw := c.Query("from"); raw != "" {
		id, err := parseAssessmentID(raw)
		if err != nil {
			return err
		}
		from = id
	}

	view, err := h.service.OpenDraft(c.UserContext(), from)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetDraft returns a staged draft
// GET /assesments/drafts/:draftId
func (h *Handlers) GetDraft(c *fiber.Ctx) error {
	view, err := h.service.Draft(c.Params("draftId"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// UpdateDraft sets the job and/or title of a draft
// PUT /assesments/drafts/:draftId
func (h *Handlers) UpdateDraft(c *fiber.Ctx) error {
	var req assessment.UpdateDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.ErrInvalidBody().WithDetail("parse_error", err.Error())
	}

	view, err := h.service.UpdateDraft(c.Params("draftId"), func(d *assessment.Draft) error {
		if req.JobID != nil {
			d.SetJob(*req.JobID)
		}
		if req.Title != nil {
			d.SetTitle(*req.Title)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// AddQuestion stages a question on a draft
// POST /assesments/drafts/:draftId/questions
func (h *Handlers) AddQuestion(c *fiber.Ctx) error {
	var req assessment.AddQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.ErrInvalidBody().WithDetail("parse_error", err.Error())
	}

	view, err := h.service.UpdateDraft(c.Params("draftId"), func(d *assessment.Draft) error {
		return d.AddQuestion(req.Text)
	})
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// RemoveQuestion drops a staged question by position
// DELETE /assesments/drafts/:draftId/questions/:index
func (h *Handlers) RemoveQuestion(c *fiber.Ctx) error {
	raw := c.Params("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return assessment.ErrQuestionIndex().WithDetail("index", raw)
	}

	view, err := h.service.UpdateDraft(c.Params("draftId"), func(d *assessment.Draft) error {
		return d.RemoveQuestion(index)
	})
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// CommitDraft saves the draft as a new or updated assessment
// POST /assesments/drafts/:draftId/commit
func (h *Handlers) CommitDraft(c *fiber.Ctx) error {
	saved, err := h.service.CommitDraft(c.UserContext(), c.Params("draftId"))
	if err != nil {
		return err
	}
	return c.JSON(saved)
}

// DiscardDraft closes a draft without saving
// DELETE /assesments/drafts/:draftId
func (h *Handlers) DiscardDraft(c *fiber.Ctx) error {
	if err := h.service.DiscardDraft(c.Params("draftId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================================
// Helpers
// ============================================================================

func parseAssessmentID(raw string) (kernel.AssessmentID, error) {
	id, err := kernel.ParseAssessmentID(raw)
	if err != nil {
		return 0, assessment.ErrInvalidID().WithDetail("id", raw)
	}
	return id, nil
}

// RegisterRoutes registers all assessment routes
func RegisterRoutes(app *fiber.App, handlers *Handlers) {
	api := app.Group("/assesments")

	drafts := api.Group("/drafts")
	drafts.Post("/", handlers.OpenDraft)
	drafts.Get("/:draftId", handlers.GetDraft)
	drafts.Put("/:draftId", handlers.UpdateDraft)
	drafts.Post("/:draftId/questions", handlers.AddQuestion)
	drafts.Delete("/:draftId/questions/:index", handlers.RemoveQuestion)
	drafts.Post("/:draftId/commit", handlers.CommitDraft)
	drafts.Delete("/:draftId", handlers.DiscardDraft)

	api.Get("/", handlers.ListAssessments)
	api.Get("/:id", handlers.GetAssessment)
	api.Post("/", handlers.CreateAssessment)
	api.Put("/:id", handlers.UpdateAssessment)
	api.Delete("/:id", handlers.DeleteAssessment)
}

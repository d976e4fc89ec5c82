package candidateapi

import (
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/validatex"
	"github.com/Shashank26122003/entnt-assignment/recruitment/candidate"
	"github.com/Shashank26122003/entnt-assignment/recruitment/candidate/candidatesrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for candidate operations
type Handlers struct {
	service *candidatesrv.CandidateService
}

// NewHandlers creates a new candidate handlers instance
func NewHandlers(service *candidatesrv.CandidateService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// ListCandidates returns the candidates of one job, or all candidates when
// no job is given
// GET /candidates?jobId=
func (h *Handlers) ListCandidates(c *fiber.Ctx) error {
	ctx := c.UserContext()

	raw := c.Query("jobId")
	if raw == "" {
		all := h.service.List(ctx)
		return c.JSON(candidate.ListCandidatesResponse{
			Candidates: all,
			Total:      len(all),
		})
	}

	jobID, err := kernel.ParseJobID(raw)
	if err != nil {
		return candidate.ErrInvalidJobID().WithDetail("jobId", raw)
	}

	scoped := h.service.ListForJob(ctx, jobID)
	return c.JSON(candidate.ListCandidatesResponse{
		JobID:      jobID,
		JobTitle:   h.service.JobTitle(ctx, jobID),
		Candidates: scoped,
		Total:      len(scoped),
	})
}

// ListStatuses returns the stages a candidate can be moved to
// GET /candidates/statuses
func (h *Handlers) ListStatuses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"statuses": candidate.Statuses()})
}

// GetCandidate retrieves a candidate by ID
// GET /candidates/:id
func (h *Handlers) GetCandidate(c *fiber.Ctx) error {
	id, err := parseCandidateID(c)
	if err != nil {
		return err
	}

	found, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(found)
}

// CreateCandidate adds a candidate to a job
// POST /candidates
func (h *Handlers) CreateCandidate(c *fiber.Ctx) error {
	var req candidate.CreateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.ErrInvalidBody().WithDetail("parse_error", err.Error())
	}

	created, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateStatus moves a candidate to another stage
// PATCH /candidates/:id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseCandidateID(c)
	if err != nil {
		return err
	}

	var req candidate.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.ErrInvalidBody().WithDetail("parse_error", err.Error())
	}
	if err := validatex.Struct(req); err != nil {
		return err
	}

	updated, err := h.service.SetStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// DeleteCandidate removes a candidate
// DELETE /candidates/:id
func (h *Handlers) DeleteCandidate(c *fiber.Ctx) error {
	id, err := parseCandidateID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================================
// Helpers
// ============================================================================

func parseCandidateID(c *fiber.Ctx) (kernel.CandidateID, error) {
	raw := c.Params("id")
	id, err := kernel.ParseCandidateID(raw)
	if err != nil {
		return 0, candidate.ErrInvalidID().WithDetail("id", raw)
	}
	return id, nil
}

// RegisterRoutes registers all candidate routes
func RegisterRoutes(app *fiber.App, handlers *Handlers) {
	api := app.Group("/candidates")

	api.Get("/", handlers.ListCandidates)
	api.Get("/statuses", handlers.ListStatuses)
	api.Get("/:id", handlers.GetCandidate)
	api.Post("/", handlers.CreateCandidate)
	api.Patch("/:id/status", handlers.UpdateStatus)
	api.Delete("/:id", handlers.DeleteCandidate)
}

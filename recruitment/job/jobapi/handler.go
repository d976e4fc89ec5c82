package jobapi

import (
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/validatex"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job/jobsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for job operations
type Handlers struct {
	service *jobsrv.JobService
}

// NewHandlers creates a new job handlers instance
func NewHandlers(service *jobsrv.JobService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// ListJobs returns the current job view
// GET /jobs
func (h *Handlers) ListJobs(c *fiber.Ctx) error {
	jobs := h.service.List()
	return c.JSON(job.ListJobsResponse{
		Jobs:  jobs,
		Total: len(jobs),
	})
}

// GetJob retrieves a job by ID
// GET /jobs/:id
func (h *Handlers) GetJob(c *fiber.Ctx) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}

	found, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(found)
}

// CreateJob creates a new job posting
// POST /jobs
func (h *Handlers) CreateJob(c *fiber.Ctx) error {
	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.ErrInvalidBody().WithDetail("parse_error", err.Error())
	}

	created, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateJob replaces the editable fields of a job
// PUT /jobs/:id
func (h *Handlers) UpdateJob(c *fiber.Ctx) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}

	var req job.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.ErrInvalidBody().WithDetail("parse_error", err.Error())
	}

	updated, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// DeleteJob deletes a job
// DELETE /jobs/:id
func (h *Handlers) DeleteJob(c *fiber.Ctx) error {
	id, err := parseJobID(c)
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

func parseJobID(c *fiber.Ctx) (kernel.JobID, error) {
	raw := c.Params("id")
	id, err := kernel.ParseJobID(raw)
	if err != nil {
		return 0, job.ErrInvalidJobID().WithDetail("id", raw)
	}
	return id, nil
}

// RegisterRoutes registers all job routes
func RegisterRoutes(app *fiber.App, handlers *Handlers) {
	api := app.Group("/jobs")

	api.Get("/", handlers.ListJobs)
	api.Get("/:id", handlers.GetJob)
	api.Post("/", handlers.CreateJob)
	api.Put("/:id", handlers.UpdateJob)
	api.Delete("/:id", handlers.DeleteJob)
}

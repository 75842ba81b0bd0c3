package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/jobboard-be/internal/api/dto"
	"github.com/cuongbtq/jobboard-be/internal/api/service"
	"github.com/gin-gonic/gin"
)

// NextCursorHeader carries the cursor of the next page so the body stays a plain array
const NextCursorHeader = "X-Next-Cursor"

// ListJobs handles GET /api/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	h.logger.Info("ListJobs called",
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
	)

	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Warn("Invalid query parameters", slog.String("error", err.Error()))
		badRequest(c, "invalid query parameters")
		return
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		h.logger.Warn("Invalid cursor", slog.String("error", err.Error()))
		badRequest(c, "invalid cursor")
		return
	}

	page, err := h.jobs.List(c.Request.Context(), service.ListOptions{
		PageSize: req.PageSize,
		Cursor:   cursor,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to list jobs", err)
		return
	}

	if page.Next != nil {
		c.Header(NextCursorHeader, EncodeJobCursor(page.Next))
	}
	c.JSON(http.StatusOK, page.Jobs)
}

// CreateJob handles POST /api/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	h.logger.Info("CreateJob called", slog.String("path", c.Request.URL.Path))

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, "invalid request body")
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), req.ToDomain(), c.GetString(UserIDKey))
	if err != nil {
		respondError(c, h.logger, "Failed to create job", err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJob handles GET /api/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id := c.Param("id")
	h.logger.Info("GetJob called", slog.String("job_id", id))

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to get job", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJob handles PUT /api/jobs/:id. Only the fields present in the body change.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id := c.Param("id")
	h.logger.Info("UpdateJob called", slog.String("job_id", id))

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, "invalid request body")
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), id, req.ToPatch(), c.GetString(UserIDKey))
	if err != nil {
		respondError(c, h.logger, "Failed to update job", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJob handles DELETE /api/jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id := c.Param("id")
	h.logger.Info("DeleteJob called", slog.String("job_id", id))

	if err := h.jobs.Delete(c.Request.Context(), id, c.GetString(UserIDKey)); err != nil {
		respondError(c, h.logger, "Failed to delete job", err)
		return
	}

	c.Status(http.StatusNoContent)
}

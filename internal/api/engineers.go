package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/store"
)

// ListEngineers returns all active engineers.
// GET /api/engineers
func (h *Handler) ListEngineers(c *gin.Context) {
	engineers, err := h.store.ListEngineers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if engineers == nil {
		engineers = []model.Engineer{}
	}
	c.JSON(http.StatusOK, gin.H{"engineers": engineers})
}

// CreateEngineerRequest is the engineer creation body.
type CreateEngineerRequest struct {
	Name       string `json:"name" binding:"required"`
	LeadUserID *int64 `json:"leadUserId"`
}

// CreateEngineer creates an engineer.
// POST /api/engineers
func (h *Handler) CreateEngineer(c *gin.Context) {
	if _, ok := h.currentUser(c); !ok {
		return
	}

	var req CreateEngineerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if existing, err := h.store.FindEngineerByName(req.Name); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "engineer already exists", "id": existing.ID})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	id, err := h.store.CreateEngineer(req.Name, req.LeadUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	engineer, err := h.store.GetEngineerByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, engineer)
}

// GetEngineer returns one engineer with their active coach assignment.
// GET /api/engineers/:id
func (h *Handler) GetEngineer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid engineer id"})
		return
	}

	engineer, err := h.store.GetEngineerByID(id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "engineer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"engineer": engineer}
	if assignment, err := h.store.GetActiveAssignment(id); err == nil {
		resp["activeAssignment"] = assignment
	}
	c.JSON(http.StatusOK, resp)
}

// EvaluationWithCases pairs an evaluation with its case rows.
type EvaluationWithCases struct {
	Evaluation model.Evaluation       `json:"evaluation"`
	Cases      []model.CaseEvaluation `json:"cases"`
}

// ListEngineerEvaluations returns an engineer's evaluations with cases.
// GET /api/engineers/:id/evaluations
func (h *Handler) ListEngineerEvaluations(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid engineer id"})
		return
	}

	evals, err := h.store.ListEvaluationsByEngineer(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]EvaluationWithCases, 0, len(evals))
	for _, eval := range evals {
		cases, err := h.store.ListCases(eval.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if cases == nil {
			cases = []model.CaseEvaluation{}
		}
		result = append(result, EvaluationWithCases{Evaluation: eval, Cases: cases})
	}

	c.JSON(http.StatusOK, gin.H{"evaluations": result})
}

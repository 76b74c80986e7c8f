package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse is the system status summary.
type StatusResponse struct {
	Initialized    bool   `json:"initialized"`
	Engineers      int    `json:"engineers"`
	Evaluations    int    `json:"evaluations"`
	Cases          int    `json:"cases"`
	LastImportTime string `json:"lastImportTime,omitempty"`
}

// GetStatus returns overall counts and the last import time.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	engineers, err := h.store.CountEngineers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	evaluations, err := h.store.CountEvaluations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	cases, err := h.store.CountCases()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	lastImport, err := h.store.LastImportTime()
	if err != nil {
		lastImport = ""
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized:    engineers > 0,
		Engineers:      engineers,
		Evaluations:    evaluations,
		Cases:          cases,
		LastImportTime: lastImport,
	})
}

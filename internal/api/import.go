package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/importer"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/parser"
)

// PreviewImport parses an uploaded workbook and reconciles it against
// current state without writing anything. The upload is kept under a uuid
// so the commit call can address the same file.
// POST /api/import/preview
func (h *Handler) PreviewImport(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	role, err := declaredRole(user, c.PostForm("role"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	uploaded, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	uploadID := uuid.New().String()
	savedPath := filepath.Join(h.uploadsDir, uploadID+".xlsx")
	if err := c.SaveUploadedFile(uploaded, savedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save upload"})
		return
	}

	preview, err := h.buildPreview(savedPath, uploaded.Filename, user, role)
	if err != nil {
		os.Remove(savedPath)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	preview.Metadata.UploadID = uploadID

	c.JSON(http.StatusOK, preview)
}

// CommitRequest is the confirmed-import request body.
type CommitRequest struct {
	UploadID        string           `json:"uploadId"`
	Role            string           `json:"role"`
	Year            int              `json:"year"`
	CoachSelections map[string]int64 `json:"coachSelections"`
}

// CommitImport applies a previously previewed upload. The workbook is
// re-parsed and re-reconciled against live state because the two calls are
// independent; the ownership gate is enforced again here.
// POST /api/import/commit
func (h *Handler) CommitImport(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	role, err := declaredRole(user, req.Role)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	if _, err := uuid.Parse(req.UploadID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload id"})
		return
	}

	savedPath := filepath.Join(h.uploadsDir, req.UploadID+".xlsx")
	if _, err := os.Stat(savedPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found; run a preview first"})
		return
	}

	preview, err := h.buildPreview(savedPath, req.UploadID+".xlsx", user, role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if preview.OwnershipWarning != nil && preview.OwnershipWarning.ShouldBlockImport {
		c.JSON(http.StatusForbidden, gin.H{
			"error":                 "workbook belongs to another coach",
			"coachOwnershipWarning": preview.OwnershipWarning,
		})
		return
	}

	year := req.Year
	if year == 0 {
		year = h.defaultYear
	}
	if year == 0 {
		year = time.Now().Year()
	}

	committer := importer.NewCommitter(h.store, h.log, h.slotCount)
	result, err := committer.Commit(importer.CommitInput{
		Engineers:       preview.Engineers,
		Importer:        user,
		Role:            role,
		Year:            year,
		CoachSelections: req.CoachSelections,
		Filename:        preview.Metadata.Filename,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	os.Remove(savedPath)

	c.JSON(http.StatusOK, result)
}

// buildPreview opens the saved upload and runs parse + reconcile. A
// workbook that cannot be opened at all is a hard failure with no partial
// preview.
func (h *Handler) buildPreview(path, filename string, user *model.User, role model.ImportRole) (*model.ImportPreview, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed := parser.NewWorkbookParser(h.log).Parse(f)

	reconciler := importer.NewReconciler(h.store, h.log)
	return reconciler.BuildPreview(importer.PreviewInput{
		Parsed:   parsed,
		Importer: user,
		Role:     role,
		Filename: filename,
	})
}

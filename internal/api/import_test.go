package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/store"
)

func newTestAPI(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(st, zerolog.Nop(), t.TempDir(), 0, 2025)
	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router, st
}

// workbookBytes builds a one-sheet workbook in the coaching template layout
// with a single Q1 case for "Jane Doe" coached by coachName.
func workbookBytes(t *testing.T, coachName string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	cells := map[string]interface{}{
		"D1": "Jane Doe",
		"H1": coachName,
		"C2": "KB Potential",
		"D2": "Article Linked",
		"A5": "Q1",
		"B6": 12,
		"C6": "yes",
		"D6": "no",
		"J6": "Jan",
	}
	for cell, value := range cells {
		if err := f.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatalf("SetCellValue(%s) failed: %v", cell, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func postWorkbook(t *testing.T, router *gin.Engine, userID int64, workbook []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "q1.xlsx")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := part.Write(workbook); err != nil {
		t.Fatalf("writing workbook failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/import/preview", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-User-Id", fmt.Sprintf("%d", userID))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPreviewImport(t *testing.T) {
	router, st := newTestAPI(t)
	coachID, err := st.CreateUser("Sam Lee", false, true, false, false)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	w := postWorkbook(t, router, coachID, workbookBytes(t, "Sam Lee"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var preview model.ImportPreview
	if err := json.Unmarshal(w.Body.Bytes(), &preview); err != nil {
		t.Fatalf("decoding preview failed: %v", err)
	}
	if len(preview.Engineers) != 1 || preview.Engineers[0].Name != "Jane Doe" {
		t.Fatalf("engineers = %+v", preview.Engineers)
	}
	if preview.Metadata.CoachName != "Sam Lee" || preview.Metadata.TotalCases != 1 {
		t.Fatalf("metadata = %+v", preview.Metadata)
	}
	if preview.Metadata.UploadID == "" {
		t.Fatalf("preview carries no upload id")
	}
	if preview.OwnershipWarning != nil {
		t.Fatalf("unexpected ownership warning: %+v", preview.OwnershipWarning)
	}
}

func TestPreviewImport_RequiresKnownUser(t *testing.T) {
	router, _ := newTestAPI(t)

	w := postWorkbook(t, router, 99, workbookBytes(t, "Sam Lee"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestCommitImport_AppliesPreviewedUpload(t *testing.T) {
	router, st := newTestAPI(t)
	coachID, err := st.CreateUser("Sam Lee", false, true, false, false)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	w := postWorkbook(t, router, coachID, workbookBytes(t, "Sam Lee"))
	if w.Code != http.StatusOK {
		t.Fatalf("preview status = %d, body = %s", w.Code, w.Body.String())
	}
	var preview model.ImportPreview
	if err := json.Unmarshal(w.Body.Bytes(), &preview); err != nil {
		t.Fatalf("decoding preview failed: %v", err)
	}

	body, _ := json.Marshal(CommitRequest{
		UploadID: preview.Metadata.UploadID,
		Year:     2025,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/import/commit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", fmt.Sprintf("%d", coachID))

	cw := httptest.NewRecorder()
	router.ServeHTTP(cw, req)
	if cw.Code != http.StatusOK {
		t.Fatalf("commit status = %d, body = %s", cw.Code, cw.Body.String())
	}

	var result model.ImportResult
	if err := json.Unmarshal(cw.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding result failed: %v", err)
	}
	if !result.Success || result.ImportedEngineers != 1 || result.ImportedCases != 1 {
		t.Fatalf("result = %+v", result)
	}

	if _, err := st.FindEngineerByName("Jane Doe"); err != nil {
		t.Fatalf("engineer not persisted: %v", err)
	}

	// The saved upload is consumed; committing again must 404.
	cw2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/import/commit", bytes.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-Id", fmt.Sprintf("%d", coachID))
	router.ServeHTTP(cw2, req2)
	if cw2.Code != http.StatusNotFound {
		t.Fatalf("re-commit status = %d, want 404", cw2.Code)
	}
}

func TestCommitImport_BlocksForeignWorkbookForCoach(t *testing.T) {
	router, st := newTestAPI(t)
	taraID, err := st.CreateUser("Tara Wong", false, true, false, false)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := st.CreateUser("Sam Lee", false, true, false, false); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// Tara previews Sam's workbook; the preview flags it and the commit is
	// refused even if the client ignores the flag.
	w := postWorkbook(t, router, taraID, workbookBytes(t, "Sam Lee"))
	if w.Code != http.StatusOK {
		t.Fatalf("preview status = %d, body = %s", w.Code, w.Body.String())
	}
	var preview model.ImportPreview
	if err := json.Unmarshal(w.Body.Bytes(), &preview); err != nil {
		t.Fatalf("decoding preview failed: %v", err)
	}
	if preview.OwnershipWarning == nil || !preview.OwnershipWarning.ShouldBlockImport {
		t.Fatalf("preview ownership warning = %+v, want blocking", preview.OwnershipWarning)
	}

	body, _ := json.Marshal(CommitRequest{UploadID: preview.Metadata.UploadID, Year: 2025})
	req := httptest.NewRequest(http.MethodPost, "/api/import/commit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", fmt.Sprintf("%d", taraID))

	cw := httptest.NewRecorder()
	router.ServeHTTP(cw, req)
	if cw.Code != http.StatusForbidden {
		t.Fatalf("commit status = %d, want 403", cw.Code)
	}

	if _, err := st.FindEngineerByName("Jane Doe"); err == nil {
		t.Fatalf("blocked commit still persisted the engineer")
	}
}

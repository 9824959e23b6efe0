package payments_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cveezy-backend/internal/bootstrap"
	"cveezy-backend/internal/shared/config"
	"cveezy-backend/internal/users"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		LanguageToolURL: "https://api.languagetool.org",
	}
}

func addGuestHeader(req *http.Request, guestID string) {
	req.Header.Set("X-Guest-Id", guestID)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, guestID string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req, guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func createResume(t *testing.T, router *gin.Engine, guestID string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes", guestID, map[string]any{
		"templateName": "classic",
		"resumeData": map[string]any{
			"contact": map[string]any{"firstName": "Ada", "lastName": "Lovelace"},
			"summary": "Engineer.",
		},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create resume: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ResumeID string `json:"resumeId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ResumeID == "" {
		t.Fatalf("expected resumeId, got empty")
	}
	return created.ResumeID
}

func uploadProof(t *testing.T, router *gin.Engine, guestID, resumeID string) string {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", "receipt.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	// Just the PNG signature; content sniffing only needs the magic bytes.
	if _, err := fileWriter.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resumeID+"/payment-proofs", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req, guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("upload proof: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if created.ID == "" || created.Status != "pending" {
		t.Fatalf("unexpected upload response: %+v", created)
	}
	return created.ID
}

func paymentStatus(t *testing.T, router *gin.Engine, guestID, resumeID string) (string, bool) {
	t.Helper()
	resp := doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+resumeID+"/payment-status", guestID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("payment status: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var status struct {
		Status       string `json:"status"`
		Downloadable bool   `json:"downloadable"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	return status.Status, status.Downloadable
}

func seedAdmin(t *testing.T, app *bootstrap.App, guestID string) {
	t.Helper()
	repo, ok := app.UsersRepo.(*users.MemoryRepo)
	if !ok {
		t.Fatalf("expected in-memory users repo, got %T", app.UsersRepo)
	}
	userID := "guest:" + guestID
	err := repo.Upsert(context.Background(), users.User{ID: userID, Email: guestID + "@example.com"})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	repo.SetAdmin(userID, true)
}

func TestPaymentGateLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(testConfig(t))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	router := app.Router
	seedAdmin(t, app, "test-admin")

	resumeID := createResume(t, router, "test-guest")

	if status, downloadable := paymentStatus(t, router, "test-guest", resumeID); status != "unpaid" || downloadable {
		t.Fatalf("fresh resume: status %q downloadable %v", status, downloadable)
	}

	proofID := uploadProof(t, router, "test-guest", resumeID)

	if status, _ := paymentStatus(t, router, "test-guest", resumeID); status != "pending" {
		t.Fatalf("after upload: status %q", status)
	}

	// A regular user cannot reach the review queue.
	resp := doJSON(t, router, http.MethodPost, "/api/v1/admin/payment-proofs/"+proofID+"/approve", "test-guest", nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("non-admin approve: expected 403, got %d", resp.Code)
	}

	// The admin sees the proof in the queue and approves it.
	resp = doJSON(t, router, http.MethodGet, "/api/v1/admin/payment-proofs", "test-admin", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list pending: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), proofID) {
		t.Fatalf("pending queue missing proof: %s", resp.Body.String())
	}

	resp = doJSON(t, router, http.MethodPost, "/api/v1/admin/payment-proofs/"+proofID+"/approve", "test-admin", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if status, downloadable := paymentStatus(t, router, "test-guest", resumeID); status != "approved" || !downloadable {
		t.Fatalf("after approval: status %q downloadable %v", status, downloadable)
	}

	// A second review of the same proof conflicts.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/admin/payment-proofs/"+proofID+"/reject", "test-admin", nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("second review: expected 409, got %d", resp.Code)
	}

	// Editing the paid resume locks the download again.
	resp = doJSON(t, router, http.MethodPut, "/api/v1/resumes/"+resumeID, "test-guest", map[string]any{
		"resumeData": map[string]any{
			"contact": map[string]any{"firstName": "Ada", "lastName": "Lovelace"},
			"summary": "Engineer, now with more detail.",
		},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("update resume: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if status, downloadable := paymentStatus(t, router, "test-guest", resumeID); status != "needs_payment_modified" || downloadable {
		t.Fatalf("after edit: status %q downloadable %v", status, downloadable)
	}

	// The download endpoint enforces the same gate.
	resp = doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+resumeID+"/download", "test-guest", nil)
	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("download after edit: expected 402, got %d", resp.Code)
	}
}

func TestPaymentStatusHidesForeignResume(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(testConfig(t))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	router := app.Router

	resumeID := createResume(t, router, "owner")

	resp := doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+resumeID+"/payment-status", "intruder", nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUploadProofRejectsPlainText(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(testConfig(t))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	router := app.Router

	resumeID := createResume(t, router, "test-guest")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", "receipt.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fileWriter.Write([]byte("definitely not an image"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resumeID+"/payment-proofs", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req, "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "unsupported_file") {
		t.Fatalf("expected unsupported_file error, got %s", resp.Body.String())
	}
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bgraves/pagemill/internal/jobs"
)

func multipartUpload(t *testing.T, filename, content, policy string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fmt.Fprint(fw, content)
	if policy != "" {
		mw.WriteField("policy", policy)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func submitImport(t *testing.T, srv *Server, filename, content, policy string) string {
	t.Helper()
	body, contentType := multipartUpload(t, filename, content, policy)
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Authorization", "Bearer test-key")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		JobID  string      `json:"job_id"`
		Status jobs.Status `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.JobID == "" {
		t.Fatal("expected a job id")
	}
	// The submit response is a point-in-time snapshot; any pipeline
	// state is acceptable, garbage is not.
	switch resp.Status {
	case jobs.StatusQueued, jobs.StatusImporting, jobs.StatusRendering,
		jobs.StatusCompleted, jobs.StatusFailed:
	default:
		t.Fatalf("unexpected status in submit response: %q", resp.Status)
	}
	return resp.JobID
}

func waitForJob(t *testing.T, srv *Server, jobID string) jobs.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/api/import/"+jobID+"/status", nil)
		req.Header.Set("Authorization", "Bearer test-key")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		var snap jobs.Snapshot
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		if snap.Status == jobs.StatusCompleted || snap.Status == jobs.StatusFailed {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return jobs.Snapshot{}
}

func TestImportFlow_Markdown(t *testing.T) {
	srv, done := testAPI(t)
	defer done()

	md := "# Part One\n\nHello.\n\n---\n\nGoodbye.\n"
	jobID := submitImport(t, srv, "story.md", md, "dividers")

	snap := waitForJob(t, srv, jobID)
	if snap.Status != jobs.StatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", snap.Status, snap.Error)
	}
	if snap.PageCount != 2 {
		t.Errorf("expected 2 pages, got %d", snap.PageCount)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/import/"+jobID+"/pages", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp pagesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode pages: %v", err)
	}
	if len(resp.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(resp.Pages))
	}
	if resp.Pages[0].HTML != "<h1>Part One</h1><p>Hello.</p>" {
		t.Errorf("page 0: got %q", resp.Pages[0].HTML)
	}
}

func TestImport_UnsupportedExtension(t *testing.T) {
	srv, done := testAPI(t)
	defer done()

	body, contentType := multipartUpload(t, "data.csv", "a,b,c", "")
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Authorization", "Bearer test-key")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestImport_UnknownJob(t *testing.T) {
	srv, done := testAPI(t)
	defer done()

	for _, path := range []string{"/api/import/nope/status", "/api/import/nope/pages"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer test-key")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestImport_BadPolicy(t *testing.T) {
	srv, done := testAPI(t)
	defer done()

	body, contentType := multipartUpload(t, "a.md", "# x", "chapters")
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Authorization", "Bearer test-key")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown policy, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "policy") {
		t.Errorf("expected policy error message, got %s", rec.Body.String())
	}
}

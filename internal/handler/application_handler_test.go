package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hitoshi/careernest/internal/model"
)

// TestCreateApplication は応募レコードの登録とデフォルトステータスを検証する。
func TestCreateApplication(t *testing.T) {
	var created *model.JobApplication
	repo := &mockApplicationRepo{
		createFunc: func(ctx context.Context, app *model.JobApplication) error {
			created = app
			return nil
		},
	}
	h := NewApplicationHandler(repo)

	body := `{"job_id": "123", "job_title": "Frontend Engineer", "company": "Acme Corp"}`
	req := authedRequestBody(http.MethodPost, "/api/applications", body)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if created == nil {
		t.Fatal("application was not persisted")
	}
	if created.UserEmail != "user@example.com" {
		t.Errorf("userEmail = %q", created.UserEmail)
	}
	if created.Status != "applied" {
		t.Errorf("status = %q, want applied (default)", created.Status)
	}
	if created.ID == "" {
		t.Error("expected generated ID")
	}

	var resp applicationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Stage != "Applied" {
		t.Errorf("stage = %q, want Applied", resp.Stage)
	}
}

// TestCreateApplication_MissingFields は必須項目欠落で400になることを検証する。
func TestCreateApplication_MissingFields(t *testing.T) {
	h := NewApplicationHandler(&mockApplicationRepo{})

	req := authedRequestBody(http.MethodPost, "/api/applications", `{"job_id": "123"}`)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestListApplications は応募一覧にステージが付与されることを検証する。
func TestListApplications(t *testing.T) {
	repo := &mockApplicationRepo{
		listByUserEmailFunc: func(ctx context.Context, userEmail string) ([]*model.JobApplication, error) {
			return []*model.JobApplication{
				{ID: "a1", JobTitle: "Frontend Engineer", Company: "Acme Corp", Status: "interview"},
			}, nil
		},
	}
	h := NewApplicationHandler(repo)

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/applications"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp []applicationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("len = %d, want 1", len(resp))
	}
	if resp[0].Stage != "Interview" {
		t.Errorf("stage = %q, want Interview", resp[0].Stage)
	}
}

// TestExportApplications はxlsxダウンロードのヘッダーと内容を検証する。
func TestExportApplications(t *testing.T) {
	repo := &mockApplicationRepo{
		listByUserEmailFunc: func(ctx context.Context, userEmail string) ([]*model.JobApplication, error) {
			return []*model.JobApplication{
				{JobTitle: "Frontend Engineer", Company: "Acme Corp", Status: "applied", AppliedAt: time.Now()},
			}, nil
		},
	}
	h := NewApplicationHandler(repo)

	rec := httptest.NewRecorder()
	h.Export(rec, authedRequest(http.MethodGet, "/api/applications/export"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content-type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "applications.xlsx") {
		t.Errorf("content-disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Applications")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
}

// TestApplicationEndpoints_Unauthorized はプリンシパルなしで401になることを検証する。
func TestApplicationEndpoints_Unauthorized(t *testing.T) {
	h := NewApplicationHandler(&mockApplicationRepo{})

	endpoints := []func(http.ResponseWriter, *http.Request){h.Create, h.List, h.Export}
	for i, endpoint := range endpoints {
		req := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
		rec := httptest.NewRecorder()
		endpoint(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("endpoint %d: status = %d, want 401", i, rec.Code)
		}
	}
}

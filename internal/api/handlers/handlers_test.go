package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/cardworks/imagestore/browse-module/internal/domain/model"
	"github.com/cardworks/imagestore/browse-module/internal/service"
	"github.com/cardworks/imagestore/browse-module/internal/storeclient"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// mockCatalog — mock сервиса каталога.
type mockCatalog struct {
	listFn   func(ctx context.Context, path string) service.Listing
	searchFn func(ctx context.Context, query string) []service.SearchResult
}

func (m *mockCatalog) ListChildren(ctx context.Context, path string) service.Listing {
	return m.listFn(ctx, path)
}

func (m *mockCatalog) Search(ctx context.Context, query string) []service.SearchResult {
	return m.searchFn(ctx, query)
}

// mockStore — mock проксируемых операций Image Store.
type mockStore struct {
	uploadFn       func(ctx context.Context, productType, filename string, file io.Reader) (*storeclient.UploadResult, error)
	deleteFn       func(ctx context.Context, id string) error
	deleteFolderFn func(ctx context.Context, productType string) error
	listTypesFn    func(ctx context.Context) ([]string, error)
}

func (m *mockStore) UploadProduct(ctx context.Context, productType, filename string, file io.Reader) (*storeclient.UploadResult, error) {
	return m.uploadFn(ctx, productType, filename, file)
}

func (m *mockStore) DeleteProduct(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockStore) DeleteFolder(ctx context.Context, productType string) error {
	return m.deleteFolderFn(ctx, productType)
}

func (m *mockStore) ListProductTypes(ctx context.Context) ([]string, error) {
	return m.listTypesFn(ctx)
}

// mockChecker — mock проверки готовности Image Store.
type mockChecker struct {
	status  string
	message string
}

func (m *mockChecker) CheckReady() (string, string) {
	return m.status, m.message
}

// newTestHandler создаёт APIHandler с mock-зависимостями.
func newTestHandler(catalog Catalog, store StoreProxy) *APIHandler {
	health := NewHealthHandler(&mockChecker{status: "ok"})
	return NewAPIHandler(health, catalog, store, 10<<20, testLogger())
}

// withURLParam добавляет chi route-параметр в контекст запроса.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// errorCode извлекает код ошибки из стандартного конверта.
func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("тело ошибки не декодируется: %v (%s)", err, body)
	}
	return envelope.Error.Code
}

// --- Hierarchy ---

func TestHandleHierarchy(t *testing.T) {
	catalog := &mockCatalog{
		listFn: func(_ context.Context, path string) service.Listing {
			if path != "metal_cards/2025" {
				t.Errorf("path = %q, ожидался metal_cards/2025", path)
			}
			return service.Listing{
				Items: []model.Node{
					model.FolderNode(model.KindMonth, "metal_cards/2025/7", "July", -1),
				},
				CurrentPath: "metal_cards/2025",
			}
		},
	}
	h := newTestHandler(catalog, &mockStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/hierarchy?path=metal_cards/2025", nil)
	rec := httptest.NewRecorder()
	h.HandleHierarchy(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидался 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, ожидался application/json", ct)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ответ не декодируется: %v", err)
	}
	if _, ok := resp["items"]; !ok {
		t.Error("в ответе нет ключа items")
	}
	var currentPath string
	if err := json.Unmarshal(resp["currentPath"], &currentPath); err != nil {
		t.Fatalf("в ответе нет ключа currentPath: %v", err)
	}
	if currentPath != "metal_cards/2025" {
		t.Errorf("currentPath = %q, ожидался metal_cards/2025", currentPath)
	}
}

func TestHandleHierarchy_EmptyPath(t *testing.T) {
	catalog := &mockCatalog{
		listFn: func(_ context.Context, path string) service.Listing {
			if path != "" {
				t.Errorf("path = %q, ожидался пустой", path)
			}
			return service.Listing{Items: []model.Node{}, CurrentPath: ""}
		},
	}
	h := newTestHandler(catalog, &mockStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/hierarchy", nil)
	rec := httptest.NewRecorder()
	h.HandleHierarchy(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидался 200", rec.Code)
	}
}

// --- Search ---

func TestHandleSearch_EmptyQuery(t *testing.T) {
	catalog := &mockCatalog{
		searchFn: func(_ context.Context, _ string) []service.SearchResult {
			t.Error("Search не должен вызываться при пустом q")
			return nil
		},
	}
	h := newTestHandler(catalog, &mockStore{})

	for _, target := range []string{"/api/v1/search", "/api/v1/search?q=", "/api/v1/search?q=%20%20"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.HandleSearch(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: статус = %d, ожидался 200", target, rec.Code)
		}

		var resp map[string]json.RawMessage
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: ответ не декодируется: %v", target, err)
		}
		if string(resp["results"]) != "[]" {
			t.Errorf("%s: results = %s, ожидался пустой массив", target, resp["results"])
		}
		// При пустом запросе в ответе нет query и total
		if _, ok := resp["query"]; ok {
			t.Errorf("%s: в ответе на пустой запрос не должно быть query", target)
		}
		if _, ok := resp["total"]; ok {
			t.Errorf("%s: в ответе на пустой запрос не должно быть total", target)
		}
	}
}

func TestHandleSearch_Results(t *testing.T) {
	catalog := &mockCatalog{
		searchFn: func(_ context.Context, query string) []service.SearchResult {
			if query != "card" {
				t.Errorf("query = %q, ожидался card (после TrimSpace)", query)
			}
			return []service.SearchResult{
				{Id: "1", Name: "card_front.jpg", Type: model.KindImage, Path: "metal_cards/2025/7/31"},
				{Id: "2", Name: "card_back.jpg", Type: model.KindImage, Path: "metal_cards/2025/7/31"},
			}
		},
	}
	h := newTestHandler(catalog, &mockStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=%20card%20", nil)
	rec := httptest.NewRecorder()
	h.HandleSearch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидался 200", rec.Code)
	}

	var resp struct {
		Results []service.SearchResult `json:"results"`
		Query   string                 `json:"query"`
		Total   int                    `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ответ не декодируется: %v", err)
	}
	if resp.Query != "card" {
		t.Errorf("query = %q, ожидался card", resp.Query)
	}
	if resp.Total != 2 || len(resp.Results) != 2 {
		t.Errorf("total = %d, результатов %d, ожидалось 2/2", resp.Total, len(resp.Results))
	}
}

// --- Upload ---

// buildUploadForm собирает multipart-форму загрузки.
func buildUploadForm(t *testing.T, productType, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if productType != "" {
		if err := mw.WriteField("product_type", productType); err != nil {
			t.Fatalf("запись поля product_type: %v", err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("создание части file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("запись файла: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("закрытие формы: %v", err)
	}
	return buf, mw.FormDataContentType()
}

func TestHandleUpload_OK(t *testing.T) {
	store := &mockStore{
		uploadFn: func(_ context.Context, productType, filename string, file io.Reader) (*storeclient.UploadResult, error) {
			if productType != "metal_cards" {
				t.Errorf("product_type = %q, ожидался metal_cards", productType)
			}
			if filename != "design.psd" {
				t.Errorf("filename = %q, ожидался design.psd", filename)
			}
			content, _ := io.ReadAll(file)
			if string(content) != "psd-bytes" {
				t.Errorf("содержимое = %q, ожидалось psd-bytes", content)
			}
			return &storeclient.UploadResult{
				StatusCode:  http.StatusCreated,
				ContentType: "application/json",
				Body:        []byte(`{"id":"new-1"}`),
			}, nil
		},
	}
	h := newTestHandler(&mockCatalog{}, store)

	body, contentType := buildUploadForm(t, "metal_cards", "design.psd", "psd-bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("статус = %d, ожидался 201 (проброс от backend)", rec.Code)
	}
	if rec.Body.String() != `{"id":"new-1"}` {
		t.Errorf("тело = %q, ожидался ответ backend как есть", rec.Body.String())
	}
}

func TestHandleUpload_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		productType string
		filename    string
	}{
		{name: "без product_type", productType: "", filename: "design.psd"},
		{name: "неизвестный тип", productType: "posters", filename: "design.psd"},
		{name: "без файла", productType: "metal_cards", filename: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{
				uploadFn: func(_ context.Context, _, _ string, _ io.Reader) (*storeclient.UploadResult, error) {
					t.Error("UploadProduct не должен вызываться при ошибке валидации")
					return nil, nil
				},
			}
			h := newTestHandler(&mockCatalog{}, store)

			body, contentType := buildUploadForm(t, tt.productType, tt.filename, "x")
			req := httptest.NewRequest(http.MethodPost, "/api/v1/products/upload", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			h.HandleUpload(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("статус = %d, ожидался 400", rec.Code)
			}
			if code := errorCode(t, rec.Body.Bytes()); code != "VALIDATION_ERROR" {
				t.Errorf("код ошибки = %q, ожидался VALIDATION_ERROR", code)
			}
		})
	}
}

func TestHandleUpload_TooLarge(t *testing.T) {
	h := NewAPIHandler(NewHealthHandler(&mockChecker{status: "ok"}),
		&mockCatalog{}, &mockStore{}, 64, testLogger())

	body, contentType := buildUploadForm(t, "metal_cards", "design.psd", strings.Repeat("x", 1024))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("статус = %d, ожидался 400", rec.Code)
	}
	if code := errorCode(t, rec.Body.Bytes()); code != "VALIDATION_ERROR" {
		t.Errorf("код ошибки = %q, ожидался VALIDATION_ERROR", code)
	}
}

func TestHandleUpload_StoreError(t *testing.T) {
	store := &mockStore{
		uploadFn: func(_ context.Context, _, _ string, _ io.Reader) (*storeclient.UploadResult, error) {
			return nil, errors.New("connection refused")
		},
	}
	h := newTestHandler(&mockCatalog{}, store)

	body, contentType := buildUploadForm(t, "metal_cards", "design.psd", "x")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("статус = %d, ожидался 502", rec.Code)
	}
	if code := errorCode(t, rec.Body.Bytes()); code != "STORE_UNAVAILABLE" {
		t.Errorf("код ошибки = %q, ожидался STORE_UNAVAILABLE", code)
	}
}

// --- Delete ---

func TestHandleDeleteProduct(t *testing.T) {
	tests := []struct {
		name       string
		deleteErr  error
		wantStatus int
		wantCode   string
	}{
		{name: "успех", deleteErr: nil, wantStatus: http.StatusNoContent},
		{name: "не найдено", deleteErr: storeclient.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "backend недоступен", deleteErr: errors.New("timeout"), wantStatus: http.StatusBadGateway, wantCode: "STORE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{
				deleteFn: func(_ context.Context, id string) error {
					if id != "abc-123" {
						t.Errorf("id = %q, ожидался abc-123", id)
					}
					return tt.deleteErr
				},
			}
			h := newTestHandler(&mockCatalog{}, store)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/abc-123", nil)
			req = withURLParam(req, "product_id", "abc-123")
			rec := httptest.NewRecorder()
			h.HandleDeleteProduct(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("статус = %d, ожидался %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if code := errorCode(t, rec.Body.Bytes()); code != tt.wantCode {
					t.Errorf("код ошибки = %q, ожидался %q", code, tt.wantCode)
				}
			}
		})
	}
}

func TestHandleDeleteFolder(t *testing.T) {
	store := &mockStore{
		deleteFolderFn: func(_ context.Context, productType string) error {
			if productType != "standees" {
				t.Errorf("product_type = %q, ожидался standees", productType)
			}
			return nil
		},
	}
	h := newTestHandler(&mockCatalog{}, store)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/folders/standees", nil)
	req = withURLParam(req, "product_type", "standees")
	rec := httptest.NewRecorder()
	h.HandleDeleteFolder(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("статус = %d, ожидался 204", rec.Code)
	}
}

// --- Product types ---

func TestHandleProductTypes(t *testing.T) {
	store := &mockStore{
		listTypesFn: func(_ context.Context) ([]string, error) {
			return []string{"metal_cards", "nfc_cards"}, nil
		},
	}
	h := newTestHandler(&mockCatalog{}, store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/product-types", nil)
	rec := httptest.NewRecorder()
	h.HandleProductTypes(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидался 200", rec.Code)
	}

	var resp struct {
		ProductTypes []string `json:"product_types"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ответ не декодируется: %v", err)
	}
	if len(resp.ProductTypes) != 2 || resp.ProductTypes[0] != "metal_cards" {
		t.Errorf("product_types = %v, ожидались [metal_cards nfc_cards]", resp.ProductTypes)
	}
}

// TestHandleProductTypes_Fallback — при недоступном backend отдаём
// канонический справочник, а не ошибку.
func TestHandleProductTypes_Fallback(t *testing.T) {
	store := &mockStore{
		listTypesFn: func(_ context.Context) ([]string, error) {
			return nil, errors.New("connection refused")
		},
	}
	h := newTestHandler(&mockCatalog{}, store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/product-types", nil)
	rec := httptest.NewRecorder()
	h.HandleProductTypes(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидался 200", rec.Code)
	}

	var resp struct {
		ProductTypes []string `json:"product_types"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ответ не декодируется: %v", err)
	}

	want := []string{"metal_cards", "nfc_cards", "standees"}
	if len(resp.ProductTypes) != len(want) {
		t.Fatalf("product_types = %v, ожидался справочник %v", resp.ProductTypes, want)
	}
	for i, code := range want {
		if resp.ProductTypes[i] != code {
			t.Errorf("product_types[%d] = %q, ожидался %q", i, resp.ProductTypes[i], code)
		}
	}
}

// --- Health ---

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(&mockChecker{status: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	h.HealthLive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидался 200", rec.Code)
	}

	var resp struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ответ не декодируется: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, ожидался ok", resp.Status)
	}
	if resp.Service != "browse-module" {
		t.Errorf("service = %q, ожидался browse-module", resp.Service)
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name        string
		checker     ReadinessChecker
		wantStatus  int
		wantOverall string
	}{
		{name: "backend доступен", checker: &mockChecker{status: "ok"}, wantStatus: http.StatusOK, wantOverall: "ok"},
		{name: "деградация", checker: &mockChecker{status: "degraded", message: "резервный набор"}, wantStatus: http.StatusOK, wantOverall: "degraded"},
		{name: "checker не инициализирован", checker: nil, wantStatus: http.StatusServiceUnavailable, wantOverall: "fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checker)

			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			rec := httptest.NewRecorder()
			h.HealthReady(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("статус = %d, ожидался %d", rec.Code, tt.wantStatus)
			}

			var resp struct {
				Status string `json:"status"`
				Checks struct {
					ImageStore struct {
						Status string `json:"status"`
					} `json:"image_store"`
				} `json:"checks"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("ответ не декодируется: %v", err)
			}
			if resp.Status != tt.wantOverall {
				t.Errorf("status = %q, ожидался %q", resp.Status, tt.wantOverall)
			}
		})
	}
}

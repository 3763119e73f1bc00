package sessions

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-studio/internal/extraction"
	"resume-studio/resume/model"
)

func newTestRouter(t *testing.T, ex Extractor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newTestService(t, ex), 1<<20).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler) SessionResponse {
	t.Helper()
	resp := doJSON(t, r, http.MethodPost, "/api/v1/sessions", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var out SessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return out
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Session  SessionResponse `json:"session"`
			Problems []string        `json:"problems"`
		} `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var out errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, resp.Body.String())
	}
	return out
}

func TestHandlerCreateAndGet(t *testing.T) {
	r := newTestRouter(t, nil)
	created := createSession(t, r)

	if created.SessionID == "" || created.ThemeID != "modern" || created.Theme.PrimaryColor != "#2563eb" {
		t.Fatalf("unexpected session: %+v", created)
	}
	if created.Data.Basics.Name != model.Seed().Basics.Name {
		t.Fatalf("expected seed data, got %q", created.Data.Basics.Name)
	}

	resp := doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+created.SessionID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = doJSON(t, r, http.MethodGet, "/api/v1/sessions/does-not-exist", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if env := decodeError(t, resp); env.Error.Code != "not_found" {
		t.Fatalf("expected not_found, got %q", env.Error.Code)
	}
}

func TestHandlerGenerateStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		err     error
		status  int
		code    string
		message string
	}{
		{name: "empty input", text: " ", status: http.StatusBadRequest, code: "empty_input", message: MessageEmptyInput},
		{name: "no data", text: "x", err: extraction.ErrNoData, status: http.StatusUnprocessableEntity, code: "no_data", message: MessageNoData},
		{name: "malformed", text: "x", err: extraction.ErrMalformedResponse, status: http.StatusUnprocessableEntity, code: "malformed_response", message: MessageMalformed},
		{name: "service failure", text: "x", err: fmt.Errorf("%w: timeout", extraction.ErrServiceFailure), status: http.StatusBadGateway, code: "service_failure", message: MessageServiceFailure},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, extractorFunc(func(ctx context.Context, in extraction.Input) (model.ResumeData, error) {
				return model.ResumeData{}, tt.err
			}))
			sess := createSession(t, r)

			resp := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+sess.SessionID+"/generate", gin.H{"text": tt.text})

			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
			env := decodeError(t, resp)
			if env.Error.Code != tt.code || env.Error.Message != tt.message {
				t.Fatalf("unexpected error body: %+v", env.Error)
			}
			if env.Error.Details.Session.Message != tt.message {
				t.Fatalf("expected session message %q, got %q", tt.message, env.Error.Details.Session.Message)
			}
			if env.Error.Details.Session.Data.Basics.Name != model.Seed().Basics.Name {
				t.Fatalf("expected previous data preserved")
			}
		})
	}
}

func TestHandlerGenerateSuccess(t *testing.T) {
	r := newTestRouter(t, extractorFunc(func(ctx context.Context, in extraction.Input) (model.ResumeData, error) {
		return generated("吴十"), nil
	}))
	sess := createSession(t, r)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+sess.SessionID+"/generate", gin.H{"text": "我叫吴十"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out SessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Data.Basics.Name != "吴十" || out.Message != "" || out.Revision != 1 {
		t.Fatalf("unexpected response: %+v", out)
	}

	doc := doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+sess.SessionID+"/document", nil)
	if doc.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", doc.Code)
	}
	if !strings.HasPrefix(doc.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", doc.Header().Get("Content-Type"))
	}
	if !strings.Contains(doc.Body.String(), "吴十") {
		t.Fatalf("expected generated name in document")
	}

	reset := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+sess.SessionID+"/reset", nil)
	if reset.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", reset.Code)
	}
	var afterReset SessionResponse
	_ = json.Unmarshal(reset.Body.Bytes(), &afterReset)
	if afterReset.Data.Basics.Name != model.Seed().Basics.Name {
		t.Fatalf("expected seed after reset, got %q", afterReset.Data.Basics.Name)
	}
}

func TestHandlerSelectTheme(t *testing.T) {
	r := newTestRouter(t, nil)
	sess := createSession(t, r)

	resp := doJSON(t, r, http.MethodPut, "/api/v1/sessions/"+sess.SessionID+"/theme", gin.H{"themeId": "classic"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var out SessionResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	if out.ThemeID != "classic" || out.Theme.Name != "经典职场" {
		t.Fatalf("unexpected theme: %+v", out.Theme)
	}

	resp = doJSON(t, r, http.MethodPut, "/api/v1/sessions/"+sess.SessionID+"/theme", gin.H{"themeId": "neon"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if env := decodeError(t, resp); env.Error.Code != "unknown_theme" {
		t.Fatalf("expected unknown_theme, got %q", env.Error.Code)
	}
}

func TestHandlerReferenceImageMultipartAndDataURL(t *testing.T) {
	r := newTestRouter(t, nil)
	sess := createSession(t, r)
	path := "/api/v1/sessions/" + sess.SessionID + "/reference-image"

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "template.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write(pngBytes)
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPut, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out SessionResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	if out.ReferenceImage == nil || out.ReferenceImage.FileName != "template.png" || out.ReferenceImage.MIMEType != "image/png" {
		t.Fatalf("unexpected reference image: %+v", out.ReferenceImage)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	resp = doJSON(t, r, http.MethodPut, path, gin.H{"dataUrl": dataURL})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, r, http.MethodPut, path, gin.H{"dataUrl": "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hello"))})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	resp = doJSON(t, r, http.MethodDelete, path, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	out = SessionResponse{}
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	if out.ReferenceImage != nil {
		t.Fatalf("expected reference image cleared")
	}
}

func TestHandlerReferenceImageTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newTestService(t, nil), 8).RegisterRoutes(r.Group("/api/v1"))
	sess := createSession(t, r)

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	resp := doJSON(t, r, http.MethodPut, "/api/v1/sessions/"+sess.SessionID+"/reference-image", gin.H{"dataUrl": dataURL})
	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestHandlerRenderPreview(t *testing.T) {
	r := newTestRouter(t, nil)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/render?fragment=1", gin.H{"data": model.Seed(), "themeId": "minimal"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.HasPrefix(resp.Body.String(), "<article") || !strings.Contains(resp.Body.String(), "#0f172a") {
		t.Fatalf("unexpected fragment: %s", resp.Body.String())
	}

	broken := map[string]any{"basics": map[string]any{"name": "x"}}
	resp = doJSON(t, r, http.MethodPost, "/api/v1/render", gin.H{"data": broken})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if env := decodeError(t, resp); len(env.Error.Details.Problems) == 0 {
		t.Fatalf("expected schema problems in details")
	}

	resp = doJSON(t, r, http.MethodPost, "/api/v1/render", gin.H{"data": model.Seed(), "themeId": "neon"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandlerThemes(t *testing.T) {
	r := newTestRouter(t, nil)
	resp := doJSON(t, r, http.MethodGet, "/api/v1/themes", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var out struct {
		Themes []struct {
			ID string `json:"id"`
		} `json:"themes"`
		Default string `json:"default"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Themes) != 4 || out.Themes[0].ID != "modern" || out.Default != "modern" {
		t.Fatalf("unexpected themes: %+v", out)
	}
}

func TestHandlerDelete(t *testing.T) {
	r := newTestRouter(t, nil)
	sess := createSession(t, r)

	resp := doJSON(t, r, http.MethodDelete, "/api/v1/sessions/"+sess.SessionID, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+sess.SessionID, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

type brokenUpdateRepo struct {
	*MemoryRepo
}

func (brokenUpdateRepo) Update(ctx context.Context, id string, fn func(*Session) error) (Session, error) {
	return Session{}, errors.New("storage unavailable")
}

func TestHandlerGenerateInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ex := extractorFunc(func(ctx context.Context, in extraction.Input) (model.ResumeData, error) {
		return generated("x"), nil
	})

	t.Run("storage failure", func(t *testing.T) {
		r := gin.New()
		svc := NewService(brokenUpdateRepo{MemoryRepo: NewMemoryRepo()}, ex, nil, time.Hour)
		NewHandler(svc, 1<<20).RegisterRoutes(r.Group("/api/v1"))
		sess := createSession(t, r)

		resp := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+sess.SessionID+"/generate", gin.H{"text": "resume"})

		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d: %s", resp.Code, resp.Body.String())
		}
		if env := decodeError(t, resp); env.Error.Code != "internal_error" || env.Error.Message == "" {
			t.Fatalf("unexpected error body: %+v", env.Error)
		}
	})

	t.Run("canceled request", func(t *testing.T) {
		r := newTestRouter(t, ex)
		sess := createSession(t, r)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sess.SessionID+"/generate", strings.NewReader(`{"text":"resume"}`)).WithContext(ctx)
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()

		r.ServeHTTP(resp, req)

		if resp.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d: %s", resp.Code, resp.Body.String())
		}
		if env := decodeError(t, resp); env.Error.Code != "request_canceled" {
			t.Fatalf("unexpected error body: %+v", env.Error)
		}
	})
}

func multipartImage(t *testing.T, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write(data)
	_ = writer.Close()
	return body, writer.FormDataContentType()
}

func TestHandlerReferenceImageKeepsDottedFileName(t *testing.T) {
	r := newTestRouter(t, nil)
	sess := createSession(t, r)
	body, contentType := multipartImage(t, "resume..v2.png", pngBytes)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+sess.SessionID+"/reference-image", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out SessionResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	if out.ReferenceImage == nil || out.ReferenceImage.FileName != "resume..v2.png" {
		t.Fatalf("unexpected reference image: %+v", out.ReferenceImage)
	}
}

func TestHandlerReferenceImageMultipartTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newTestService(t, nil), 8).RegisterRoutes(r.Group("/api/v1"))
	sess := createSession(t, r)
	payload := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 10000)...)
	body, contentType := multipartImage(t, "big.png", payload)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+sess.SessionID+"/reference-image", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", resp.Code, resp.Body.String())
	}
	if env := decodeError(t, resp); env.Error.Code != "image_too_large" {
		t.Fatalf("unexpected error body: %+v", env.Error)
	}
}

package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/mocks"
	"github.com/metinatakli/showtime-booking/internal/validator"
)

var cmpEmptyAsNil = cmpopts.EquateEmpty()

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config:    Config{Env: "test"},
		validator: validator.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		movieRepo: &mocks.MockMovieRepo{},
		admission: &mocks.MockAdmission{},
		publisher: &mocks.MockPublisher{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// executeRequest encodes body as JSON. A string body is sent unchanged so
// tests can send malformed documents.
func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader

	switch b := body.(type) {
	case nil:
		reader = http.NoBody
	case string:
		reader = strings.NewReader(b)
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

type errorExpectation struct {
	wantStatus     int
	wantErrMessage string
	wantReason     string
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt errorExpectation) {
	t.Helper()

	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	body := bytes.NewReader(w.Body.Bytes())

	if tt.wantStatus == http.StatusUnprocessableEntity && tt.wantReason == "" {
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response %+v", tt.wantErrMessage, validationResp.ValidationErrors)
		}

		return
	}

	var errorResp api.ErrorResponse
	if err := json.NewDecoder(body).Decode(&errorResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
		t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
	}

	gotReason := ""
	if errorResp.Reason != nil {
		gotReason = *errorResp.Reason
	}

	if gotReason != tt.wantReason {
		t.Errorf("Error reason = %q, want %q", gotReason, tt.wantReason)
	}

	if errorResp.Timestamp.IsZero() {
		t.Error("Error timestamp is not set")
	}
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var resp T
	if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return resp
}

func ptr[T any](v T) *T {
	return &v
}

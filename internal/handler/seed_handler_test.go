package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/handler"
	"github.com/noah-isme/pathfinder-api/internal/service"
)

type mockSeedService struct {
	err             error
	lastToken       string
	lastAssessments []dto.SeedAssessment
	lastPaths       []dto.SeedLearningPath
	lastCareers     []dto.CareerUpsertRequest
	lastImport      []byte
	affected        int64
}

func (m *mockSeedService) SeedAssessments(_ context.Context, token string, items []dto.SeedAssessment) (int64, error) {
	m.lastToken = token
	m.lastAssessments = items
	return m.affected, m.err
}

func (m *mockSeedService) SeedLearningPaths(_ context.Context, token string, items []dto.SeedLearningPath) (int64, error) {
	m.lastToken = token
	m.lastPaths = items
	return m.affected, m.err
}

func (m *mockSeedService) SeedCareers(_ context.Context, token string, items []dto.CareerUpsertRequest) (int64, error) {
	m.lastToken = token
	m.lastCareers = items
	return m.affected, m.err
}

func (m *mockSeedService) ImportCatalog(_ context.Context, token string, r io.Reader) (dto.CatalogImportResult, error) {
	m.lastToken = token
	data, err := io.ReadAll(r)
	if err != nil {
		return dto.CatalogImportResult{}, err
	}
	m.lastImport = data
	if m.err != nil {
		return dto.CatalogImportResult{}, m.err
	}
	return dto.CatalogImportResult{Assessments: 1, Careers: 2}, nil
}

func newSeedApp(svc service.SeedService) *fiber.App {
	app := fiber.New()
	handler.NewSeedHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/seed"))
	return app
}

func seedRequest(t *testing.T, app *fiber.App, target string, body io.Reader, contentType string) (*http.Response, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Seed-Token", "secret")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out envelope
	decodeResponse(t, resp, &out)
	return resp, out
}

func TestSeedHandlerAssessments(t *testing.T) {
	svc := &mockSeedService{affected: 1}
	app := newSeedApp(svc)

	payload := `{"items":[{"slug":"technical-aptitude","title":"Technical Aptitude","category":"technical","questions":[{"prompt":"I enjoy debugging","category":"Technical"}]}]}`
	resp, body := seedRequest(t, app, "/api/v1/seed/assessments", bytes.NewBufferString(payload), fiber.MIMEApplicationJSON)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, body.Success)
	require.Equal(t, "secret", svc.lastToken)
	require.Len(t, svc.lastAssessments, 1)
	require.Equal(t, "technical-aptitude", svc.lastAssessments[0].Slug)
}

func TestSeedHandlerCatalogSections(t *testing.T) {
	svc := &mockSeedService{affected: 2}
	app := newSeedApp(svc)

	resp, _ := seedRequest(t, app, "/api/v1/seed/learning-paths", bytes.NewBufferString(`{"items":[{"title":"Backend Engineering","category":"technical"}]}`), fiber.MIMEApplicationJSON)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, svc.lastPaths, 1)

	resp, _ = seedRequest(t, app, "/api/v1/seed/careers", bytes.NewBufferString(`{"items":[{"title":"Nurse","category":"Healthcare"}]}`), fiber.MIMEApplicationJSON)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, svc.lastCareers, 1)
	require.Equal(t, "Nurse", svc.lastCareers[0].Title)

	resp, _ = seedRequest(t, app, "/api/v1/seed/careers", bytes.NewBufferString(`{"items":`), fiber.MIMEApplicationJSON)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSeedHandlerErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "disabled", err: service.ErrSeedDisabled, status: fiber.StatusForbidden},
		{name: "bad token", err: service.ErrSeedUnauthorized, status: fiber.StatusForbidden},
		{name: "not json", err: service.ErrInvalidCatalogFile, status: fiber.StatusBadRequest},
		{name: "storage", err: errors.New("disk full"), status: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newSeedApp(&mockSeedService{err: tc.err})
			resp, body := seedRequest(t, app, "/api/v1/seed/import", bytes.NewBufferString(`{"careers":[]}`), fiber.MIMEApplicationJSON)
			require.Equal(t, tc.status, resp.StatusCode)
			require.False(t, body.Success)
		})
	}
}

func TestSeedHandlerImportMultipart(t *testing.T) {
	svc := &mockSeedService{}
	app := newSeedApp(svc)

	document := []byte(`{"assessments":[],"learning_paths":[],"careers":[]}`)
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "catalog.json")
	require.NoError(t, err)
	_, err = part.Write(document)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, body := seedRequest(t, app, "/api/v1/seed/import", &buf, writer.FormDataContentType())
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, body.Success)
	require.Equal(t, document, svc.lastImport)
}

func TestSeedHandlerImportRawBody(t *testing.T) {
	svc := &mockSeedService{}
	app := newSeedApp(svc)

	resp, _ := seedRequest(t, app, "/api/v1/seed/import", bytes.NewBufferString(`{"careers":[]}`), fiber.MIMEApplicationJSON)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, `{"careers":[]}`, string(svc.lastImport))

	resp, _ = seedRequest(t, app, "/api/v1/seed/import", bytes.NewReader(nil), fiber.MIMEApplicationJSON)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

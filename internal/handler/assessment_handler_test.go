package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/handler"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
	"github.com/noah-isme/pathfinder-api/internal/service"
)

type stubAssessmentService struct {
	submitErr  error
	lastActor  service.ActivityActor
	lastSubmit dto.SubmitAssessmentRequest
	lastList   dto.ProgressListRequest
}

func (s *stubAssessmentService) List(_ context.Context, req dto.AssessmentListRequest) ([]dto.AssessmentSummary, error) {
	if req.Category == "bogus" {
		return nil, service.ErrInvalidCategory
	}
	return []dto.AssessmentSummary{{ID: 1, Title: "Technical Aptitude", Category: req.Category, QuestionCount: 2}}, nil
}

func (s *stubAssessmentService) Get(_ context.Context, id uint) (dto.AssessmentDetail, error) {
	if id != 1 {
		return dto.AssessmentDetail{}, service.ErrAssessmentNotFound
	}
	return dto.AssessmentDetail{AssessmentSummary: dto.AssessmentSummary{ID: 1, Title: "Technical Aptitude"}}, nil
}

func (s *stubAssessmentService) Start(_ context.Context, actor service.ActivityActor, assessmentID uint) (dto.StartAttemptResponse, error) {
	s.lastActor = actor
	return dto.StartAttemptResponse{ProgressID: 7, StartedAt: time.Now().UTC(), Assessment: dto.AssessmentDetail{AssessmentSummary: dto.AssessmentSummary{ID: assessmentID}}}, nil
}

func (s *stubAssessmentService) Submit(_ context.Context, actor service.ActivityActor, assessmentID uint, req dto.SubmitAssessmentRequest) (dto.SubmissionResultResponse, error) {
	s.lastActor = actor
	s.lastSubmit = req
	if s.submitErr != nil {
		return dto.SubmissionResultResponse{}, s.submitErr
	}
	return dto.SubmissionResultResponse{
		ProgressID:        req.ProgressID,
		AssessmentID:      assessmentID,
		Status:            scoring.StatusCompleted,
		OverallPercentage: 90,
		OverallProfile:    "Very Strong",
		Passed:            true,
	}, nil
}

func (s *stubAssessmentService) History(_ context.Context, _ uint, req dto.ProgressListRequest) (dto.ProgressListResponse, error) {
	s.lastList = req
	return dto.ProgressListResponse{
		Items:      []dto.ProgressResponse{{ID: 7, AssessmentID: 1, Status: scoring.StatusCompleted}},
		Pagination: dto.PaginationMeta{Page: 1, PageSize: 10, TotalItems: 1, TotalPages: 1},
	}, nil
}

func (s *stubAssessmentService) SkillProfile(context.Context, uint) ([]dto.SkillProgressResponse, error) {
	return []dto.SkillProgressResponse{{Skill: "technical", Percentage: 91, Level: "Very Strong"}}, nil
}

func (s *stubAssessmentService) Stats(context.Context, uint) (dto.AssessmentStatsResponse, error) {
	return dto.AssessmentStatsResponse{TotalAttempts: 2, Completed: 1, InProgress: 1, AverageScore: 90, CompletionRate: 50}, nil
}

func newAssessmentApp(svc service.AssessmentService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/assessments", asUser(42, "student"))
	handler.NewAssessmentHandler(svc, nil, zerolog.Nop()).Register(group)
	return app
}

func TestAssessmentHandlerSubmit(t *testing.T) {
	svc := &stubAssessmentService{}
	app := newAssessmentApp(svc)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/assessments/1/submit", dto.SubmitAssessmentRequest{
		ProgressID: 7,
		Answers:    []string{"Strongly Agree", "Agree"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, body.Success)

	var result dto.SubmissionResultResponse
	require.NoError(t, json.Unmarshal(body.Data, &result))
	require.Equal(t, uint(7), result.ProgressID)
	require.Equal(t, 90, result.OverallPercentage)
	require.Equal(t, uint(42), svc.lastActor.ID)
	require.Equal(t, "student", svc.lastActor.Role)
	require.Len(t, svc.lastSubmit.Answers, 2)
}

func TestAssessmentHandlerSubmitErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "answer count", err: scoring.AnswerCountError(2, 1), status: fiber.StatusBadRequest},
		{name: "foreign attempt", err: service.ErrProgressForbidden, status: fiber.StatusForbidden},
		{name: "closed attempt", err: service.ErrAttemptClosed, status: fiber.StatusConflict},
		{name: "missing attempt", err: service.ErrProgressNotFound, status: fiber.StatusNotFound},
		{name: "broken catalog", err: scoring.NewError(scoring.KindDataIntegrity, "assessment has no scorable questions"), status: fiber.StatusUnprocessableEntity},
		{name: "struct validation", err: validator.New().Struct(dto.SubmitAssessmentRequest{}), status: fiber.StatusBadRequest},
		{name: "unexpected", err: context.DeadlineExceeded, status: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newAssessmentApp(&stubAssessmentService{submitErr: tc.err})
			resp, body := doJSON(t, app, http.MethodPost, "/api/v1/assessments/1/submit", dto.SubmitAssessmentRequest{ProgressID: 7, Answers: []string{"Agree"}})
			require.Equal(t, tc.status, resp.StatusCode)
			require.False(t, body.Success)
			require.NotEmpty(t, body.Message)
		})
	}
}

func TestAssessmentHandlerAnswerCountDetails(t *testing.T) {
	app := newAssessmentApp(&stubAssessmentService{submitErr: scoring.AnswerCountError(2, 1)})
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/assessments/1/submit", dto.SubmitAssessmentRequest{ProgressID: 7, Answers: []string{"Agree"}})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Details, &details))
	require.EqualValues(t, 2, details["expected"])
	require.EqualValues(t, 1, details["received"])
}

func TestAssessmentHandlerCatalog(t *testing.T) {
	app := newAssessmentApp(&stubAssessmentService{})

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/assessments?category=technical", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var items []dto.AssessmentSummary
	require.NoError(t, json.Unmarshal(body.Data, &items))
	require.Len(t, items, 1)
	require.Equal(t, "technical", items[0].Category)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/assessments?category=bogus", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/assessments/abc", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/assessments/9", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/assessments/1/start", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var attempt dto.StartAttemptResponse
	require.NoError(t, json.Unmarshal(body.Data, &attempt))
	require.Equal(t, uint(7), attempt.ProgressID)
}

func TestAssessmentHandlerProgress(t *testing.T) {
	svc := &stubAssessmentService{}
	app := newAssessmentApp(svc)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/assessments/history?status=Completed&page=2&page_size=5", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, dto.ProgressListRequest{Status: "Completed", Page: 2, PageSize: 5}, svc.lastList)

	var meta dto.PaginationMeta
	require.NoError(t, json.Unmarshal(body.Meta, &meta))
	require.Equal(t, int64(1), meta.TotalItems)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/assessments/history?page=x", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/assessments/skills", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var skills []dto.SkillProgressResponse
	require.NoError(t, json.Unmarshal(body.Data, &skills))
	require.Equal(t, "technical", skills[0].Skill)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/assessments/stats", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats dto.AssessmentStatsResponse
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	require.Equal(t, 50, stats.CompletionRate)
}

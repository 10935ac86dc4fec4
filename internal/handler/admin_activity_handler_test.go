package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/handler"
	"github.com/noah-isme/pathfinder-api/internal/service"
)

type stubActivityService struct {
	lastList  dto.ActivityListRequest
	lastActor service.ActivityActor
}

func (s *stubActivityService) Record(_ context.Context, entry service.ActivityEntry) (dto.ActivityResponse, error) {
	return dto.ActivityResponse{Action: entry.Action}, nil
}

func (s *stubActivityService) List(_ context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	s.lastList = req
	return dto.ActivityListResponse{
		Items:      []dto.ActivityResponse{{ID: 1, Action: "assessment.completed", EntityType: "assessment_progress"}},
		Pagination: dto.PaginationMeta{Page: req.Page, PageSize: req.PageSize, TotalItems: 1, TotalPages: 1},
	}, nil
}

func (s *stubActivityService) Create(_ context.Context, actor service.ActivityActor, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error) {
	s.lastActor = actor
	if err := validator.New().Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}
	return dto.ActivityResponse{ID: 2, ActorID: actor.ID, Action: payload.Action, EntityType: payload.EntityType}, nil
}

func TestAdminActivityHandlerList(t *testing.T) {
	svc := &stubActivityService{}
	app := fiber.New()
	handler.NewAdminActivityHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/admin/activities", asUser(1, "admin")))

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/admin/activities?page_size=500&actor_id=42&action=assessment.completed", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, dto.ActivityListRequest{Page: 1, PageSize: 200, ActorID: 42, Action: "assessment.completed"}, svc.lastList)

	var items []dto.ActivityResponse
	require.NoError(t, json.Unmarshal(body.Data, &items))
	require.Len(t, items, 1)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/activities?actor_id=abc", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminActivityHandlerCreate(t *testing.T) {
	svc := &stubActivityService{}
	app := fiber.New()
	handler.NewAdminActivityHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/admin/activities", asUser(1, "admin")))

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/admin/activities", dto.ActivityCreateRequest{Action: "catalog.reviewed", EntityType: "career"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(1), svc.lastActor.ID)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/admin/activities", dto.ActivityCreateRequest{Action: "x"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "validation failed", body.Message)
}

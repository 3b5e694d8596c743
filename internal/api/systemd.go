package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/bbled/internal/api/models"
	"github.com/smazurov/bbled/internal/systemd"
)

func mapUnitError(msg string, err error) error {
	if errors.Is(err, systemd.ErrNotConnected) {
		return huma.Error503ServiceUnavailable(msg, err)
	}
	return huma.Error500InternalServerError(msg, err)
}

func (s *Server) registerSystemdRoutes() {
	if s.options.SystemdManager == nil {
		return
	}
	unit := s.options.SystemdManager

	huma.Register(s.api, huma.Operation{
		OperationID: "get-systemd-status",
		Method:      http.MethodGet,
		Path:        "/api/systemd/status",
		Summary:     "Unit Status",
		Description: "Get the ActiveState of the systemd unit running bbled",
		Tags:        []string{"systemd"},
		Errors:      []int{401, 500, 503},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.SystemdUnitStatusResponse, error) {
		state, err := unit.ActiveState(ctx)
		if err != nil {
			return nil, mapUnitError("Failed to get unit status", err)
		}
		return &models.SystemdUnitStatusResponse{
			Body: models.SystemdUnitStatus{
				Unit:  unit.Unit(),
				State: state,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "restart-systemd-unit",
		Method:      http.MethodPost,
		Path:        "/api/systemd/restart",
		Summary:     "Restart bbled",
		Description: "Ask systemd to restart the bbled unit. The profile is reapplied on start.",
		Tags:        []string{"systemd"},
		Errors:      []int{401, 500, 503},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.SystemdUnitActionResponse, error) {
		if err := unit.Restart(ctx); err != nil {
			return nil, mapUnitError("Failed to restart unit", err)
		}
		return &models.SystemdUnitActionResponse{
			Body: models.SystemdUnitAction{
				Unit:    unit.Unit(),
				Action:  "restart",
				Success: true,
			},
		}, nil
	})
}

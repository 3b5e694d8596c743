package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/bbled/internal/api/models"
	"github.com/smazurov/bbled/internal/updater"
)

// updateOperations are the self-update endpoints. Disabled services keep
// the same operations, answering 503.
var updateOperations = map[string]huma.Operation{
	"check": {
		OperationID: "check-updates",
		Method:      http.MethodGet,
		Path:        "/api/update/check",
		Summary:     "Check for Updates",
		Description: "Compare the latest GitHub release with the running version without downloading it",
		Errors:      []int{401, 404, 409, 500, 503},
	},
	"status": {
		OperationID: "get-update-status",
		Method:      http.MethodGet,
		Path:        "/api/update/status",
		Summary:     "Get Update Status",
		Errors:      []int{401, 503},
	},
	"apply": {
		OperationID: "apply-update",
		Method:      http.MethodPost,
		Path:        "/api/update/apply",
		Summary:     "Apply Update",
		Description: "Download and install the latest release, then restart",
		Errors:      []int{400, 401, 404, 409, 500, 503},
	},
	"rollback": {
		OperationID: "rollback-update",
		Method:      http.MethodPost,
		Path:        "/api/update/rollback",
		Summary:     "Rollback Update",
		Description: "Reinstall the backed up binary, then restart",
		Errors:      []int{400, 401, 500, 503},
	},
}

func updateOperation(name string) huma.Operation {
	op := updateOperations[name]
	op.Tags = []string{"update"}
	op.Security = withAuth()
	return op
}

func (s *Server) registerUpdateRoutes() {
	svc := s.options.UpdateService
	if svc == nil {
		return
	}

	if !svc.IsEnabled() {
		reason := svc.DisabledReason()
		for _, name := range []string{"check", "status", "apply", "rollback"} {
			huma.Register(s.api, updateOperation(name), func(context.Context, *struct{}) (*struct{}, error) {
				return nil, huma.Error503ServiceUnavailable("Update service disabled: " + reason)
			})
		}
		return
	}

	huma.Register(s.api, updateOperation("check"), func(ctx context.Context, _ *struct{}) (*models.UpdateCheckResponse, error) {
		info, err := svc.CheckForUpdate(ctx)
		if err != nil {
			return nil, mapUpdateError(err)
		}
		return &models.UpdateCheckResponse{Body: models.UpdateCheckData(*info)}, nil
	})

	huma.Register(s.api, updateOperation("status"), func(ctx context.Context, _ *struct{}) (*models.UpdateStatusResponse, error) {
		status := svc.GetStatus(ctx)
		return &models.UpdateStatusResponse{
			Body: models.UpdateStatusData{
				State:           string(status.State),
				CurrentVersion:  status.CurrentVersion,
				TargetVersion:   status.TargetVersion,
				Error:           status.Error,
				LastChecked:     status.LastChecked,
				BackupAvailable: status.BackupAvailable,
				BackupVersion:   status.BackupVersion,
			},
		}, nil
	})

	huma.Register(s.api, updateOperation("apply"), s.updateAction("apply", "Update applied, restarting", svc.ApplyUpdate))
	huma.Register(s.api, updateOperation("rollback"), s.updateAction("rollback", "Rollback complete, restarting", svc.Rollback))
}

func (s *Server) updateAction(action, message string, run func(context.Context) error) func(context.Context, *struct{}) (*models.UpdateActionResponse, error) {
	return func(ctx context.Context, _ *struct{}) (*models.UpdateActionResponse, error) {
		if err := run(ctx); err != nil {
			s.logger.Warn("Update action failed", "action", action, "error", err)
			return nil, mapUpdateError(err)
		}
		return &models.UpdateActionResponse{
			Body: models.UpdateActionData{
				Action:  action,
				Message: message,
				State:   string(s.options.UpdateService.GetStatus(ctx).State),
			},
		}, nil
	}
}

// mapUpdateError converts updater failures to HTTP errors.
func mapUpdateError(err error) error {
	var updateErr *updater.Error
	if !errors.As(err, &updateErr) {
		return huma.Error500InternalServerError(err.Error())
	}

	switch updateErr.Code {
	case updater.CodeNoUpdate, updater.CodeNoBackup:
		return huma.Error400BadRequest(updateErr.Message)
	case updater.CodeNotFound:
		return huma.Error404NotFound(updateErr.Message)
	case updater.CodeInvalidState:
		return huma.Error409Conflict(updateErr.Message)
	case updater.CodeDisabled:
		return huma.Error503ServiceUnavailable(updateErr.Message)
	default:
		return huma.Error500InternalServerError(updateErr.Error())
	}
}

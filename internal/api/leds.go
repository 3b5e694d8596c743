package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/bbled/internal/api/models"
	"github.com/smazurov/bbled/internal/led"
)

// LEDNameInput selects one LED by path.
type LEDNameInput struct {
	Name string `path:"name" example:"usr0" doc:"LED name, usr0..usr3 or 0..3"`
}

// LEDSetRequest applies a state to one LED.
type LEDSetRequest struct {
	Name    string `path:"name" example:"usr0" doc:"LED name, usr0..usr3 or 0..3"`
	Persist bool   `query:"persist" doc:"Also save the state to the LED profile"`
	Body    models.LEDState
}

// registerLEDRoutes registers LED control endpoints
func (s *Server) registerLEDRoutes() {
	if s.options.LEDManager == nil {
		s.logger.Debug("LED manager not available, skipping LED routes")
		return
	}
	mgr := s.options.LEDManager

	huma.Register(s.api, huma.Operation{
		OperationID: "get-led-capabilities",
		Method:      http.MethodGet,
		Path:        "/api/leds/capabilities",
		Summary:     "Get LED Capabilities",
		Description: "Get the list of LED names and patterns supported on this board",
		Tags:        []string{"leds"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.LEDCapabilitiesResponse, error) {
		ctrl := mgr.GetController()
		return &models.LEDCapabilitiesResponse{
			Body: models.LEDCapabilitiesData{
				AvailableTypes:    ctrl.Available(),
				AvailablePatterns: ctrl.Patterns(),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-leds",
		Method:      http.MethodGet,
		Path:        "/api/leds",
		Summary:     "List LEDs",
		Description: "List every user LED with its active trigger, read from the device",
		Tags:        []string{"leds"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.LEDListResponse, error) {
		statuses := mgr.List()
		return &models.LEDListResponse{
			Body: models.LEDListData{
				LEDs:  statuses,
				Count: len(statuses),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-led",
		Method:      http.MethodGet,
		Path:        "/api/leds/{name}",
		Summary:     "Get LED",
		Description: "Read one LED's control directory and active trigger",
		Tags:        []string{"leds"},
		Errors:      []int{401, 404, 500, 502},
		Security:    withAuth(),
	}, func(_ context.Context, input *LEDNameInput) (*models.LEDStatusResponse, error) {
		status, err := mgr.Status(input.Name)
		if err != nil {
			if errors.Is(err, led.ErrUnknownLED) {
				return nil, huma.Error404NotFound("LED not found", err)
			}
			return nil, mapLEDError("Failed to read LED trigger", err)
		}
		return &models.LEDStatusResponse{Body: status}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-led",
		Method:      http.MethodPut,
		Path:        "/api/leds/{name}",
		Summary:     "Set LED",
		Description: "Apply a pattern to one LED, optionally saving it to the profile",
		Tags:        []string{"leds"},
		Errors:      []int{400, 401, 500, 502, 503},
		Security:    withAuth(),
	}, func(_ context.Context, input *LEDSetRequest) (*models.LEDSetResponse, error) {
		if err := mgr.Set(input.Name, input.Body, led.SourceAPI); err != nil {
			return nil, mapLEDError("Failed to set LED", err)
		}

		name, _ := led.ParseNumber(input.Name)
		resp := &models.LEDSetResponse{
			Body: models.LEDSetData{
				Name:  name.String(),
				State: input.Body,
			},
		}

		if input.Persist {
			if s.options.Profiles == nil {
				return nil, huma.Error400BadRequest("LED profile is not configured")
			}
			if err := s.options.Profiles.SetLED(name.String(), input.Body); err != nil {
				return nil, huma.Error500InternalServerError("LED set but profile not saved", err)
			}
			resp.Body.Persisted = true
		}
		return resp, nil
	})
}

// mapLEDError converts LED errors to Huma HTTP errors.
func mapLEDError(msg string, err error) error {
	switch {
	case errors.Is(err, led.ErrUnknownLED), errors.Is(err, led.ErrUnknownPattern):
		return huma.Error400BadRequest(msg, err)
	case errors.Is(err, led.ErrProtocolViolation):
		return huma.Error502BadGateway(msg, err)
	case errors.Is(err, led.ErrNotSupported):
		return huma.Error503ServiceUnavailable(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}

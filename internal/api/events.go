package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/bbled/internal/events"
)

// ConnectedEvent is the first message on every stream.
type ConnectedEvent struct {
	Message   string `json:"message" example:"SSE connection established" doc:"Greeting"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Connection time"`
}

func connected() ConnectedEvent {
	return ConnectedEvent{
		Message:   "SSE connection established",
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of LED state changes and profile reloads",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"connected":         ConnectedEvent{},
		"led-state-changed": events.LEDStateChangedEvent{},
		"profile-loaded":    events.ProfileLoadedEvent{},
		"profile-applied":   events.ProfileAppliedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.Forward[events.LEDStateChangedEvent](s.eventBus, eventCh),
			events.Forward[events.ProfileLoadedEvent](s.eventBus, eventCh),
			events.Forward[events.ProfileAppliedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		if err := send.Data(connected()); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}

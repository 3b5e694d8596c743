package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/bbled/internal/api/models"
	"github.com/smazurov/bbled/internal/events"
	"github.com/smazurov/bbled/internal/logging"
)

// LogsInput limits how many buffered entries are returned.
type LogsInput struct {
	Limit int `query:"limit" minimum:"0" default:"100" doc:"Newest entries to return, 0 for all"`
}

// registerLogRoutes registers the buffered log endpoint and the log SSE stream.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Return the newest entries of the in-memory log buffer",
		Tags:        []string{"logs"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, input *LogsInput) (*models.LogsResponse, error) {
		resp := &models.LogsResponse{Body: models.LogsData{Entries: []models.LogEntry{}}}
		buffer := logging.GetBuffer()
		if buffer == nil {
			return resp, nil
		}
		for _, entry := range buffer.Tail(input.Limit) {
			resp.Body.Entries = append(resp.Body.Entries, models.LogEntry{
				Timestamp:  entry.Timestamp,
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		}
		resp.Body.Count = len(resp.Body.Entries)
		return resp, nil
	})

	sse.Register(s.api, huma.Operation{
		OperationID: "logs-stream",
		Method:      http.MethodGet,
		Path:        "/api/logs/stream",
		Summary:     "Log Stream",
		Description: "Real-time log streaming via Server-Sent Events. Sends historical logs first, then streams new logs.",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"connected": ConnectedEvent{},
		"message":   events.LogEntryEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		// Subscribe before replaying so nothing logged in between is lost
		eventCh := make(chan any, 100)
		unsubscribe := events.Forward[events.LogEntryEvent](s.eventBus, eventCh)
		defer unsubscribe()

		if err := send.Data(connected()); err != nil {
			return
		}

		if buffer := logging.GetBuffer(); buffer != nil {
			for _, entry := range buffer.ReadAll() {
				event := events.LogEntryEvent{
					Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
					Level:      entry.Level,
					Module:     entry.Module,
					Message:    entry.Message,
					Attributes: entry.Attributes,
				}
				if err := send.Data(event); err != nil {
					return
				}
			}
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

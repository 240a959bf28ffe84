package logging

import (
	"context"
	"log/slog"
	"os"
	"time"
)

type contextKey string

const (
	NoteIDKey       contextKey = "note_id"
	EventIDKey      contextKey = "event_id"
	ProjectIDKey    contextKey = "project_id"
	StatusPageIDKey contextKey = "status_page_id"
	JobNameKey      contextKey = "job"
)

// MultiHandler sends log records to multiple handlers.
type MultiHandler struct {
	handlers []slog.Handler
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if err := h.Handle(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: newHandlers}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: newHandlers}
}

// Init installs the default logger: text to stdout plus JSON to logFile.
// An empty logFile means stdout only.
func Init(logFile string) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(a.Key, t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	stdoutHandler := slog.NewTextHandler(os.Stdout, opts)

	if logFile == "" {
		slog.SetDefault(slog.New(stdoutHandler))
		return
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		slog.Error("failed to open log file", slog.Any("error", err))
		slog.SetDefault(slog.New(stdoutHandler))
		return
	}

	jsonHandler := slog.NewJSONHandler(f, opts)

	slog.SetDefault(slog.New(&MultiHandler{
		handlers: []slog.Handler{stdoutHandler, jsonHandler},
	}))
}

// FromContext returns the default logger enriched with whichever engine IDs
// are carried by the context.
func FromContext(ctx context.Context) *slog.Logger {
	l := slog.Default()
	if val, ok := ctx.Value(JobNameKey).(string); ok {
		l = l.With("job", val)
	}
	if val, ok := ctx.Value(NoteIDKey).(string); ok {
		l = l.With("note_id", val)
	}
	if val, ok := ctx.Value(EventIDKey).(string); ok {
		l = l.With("event_id", val)
	}
	if val, ok := ctx.Value(ProjectIDKey).(string); ok {
		l = l.With("project_id", val)
	}
	if val, ok := ctx.Value(StatusPageIDKey).(string); ok {
		l = l.With("status_page_id", val)
	}
	return l
}

func WithJobName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, JobNameKey, name)
}

func WithNoteID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, NoteIDKey, id)
}

func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, EventIDKey, id)
}

func WithProjectID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ProjectIDKey, id)
}

func WithStatusPageID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, StatusPageIDKey, id)
}

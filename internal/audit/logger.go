package audit

import (
	"context"
	"net/http"
)

// Entry describes one mutation attempt.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	ActorID    string
	// Err is the failure, nil on success
	Err     error
	Context map[string]interface{}
}

// Logger defines the interface for auditing mutations
type Logger interface {
	LogMutation(ctx context.Context, entry Entry) error
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

// LogMutation implements Logger.LogMutation
func (l *NoOpLogger) LogMutation(ctx context.Context, entry Entry) error {
	return nil
}

// RequestMeta is the slice of the HTTP request kept on each audit row.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

type requestKey struct{}

// WithRequest stores the request metadata for later audit entries.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, requestKey{}, RequestMeta{
		ClientIP:  r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
}

// RequestFrom returns the metadata stored by WithRequest.
func RequestFrom(ctx context.Context) (RequestMeta, bool) {
	meta, ok := ctx.Value(requestKey{}).(RequestMeta)
	return meta, ok
}

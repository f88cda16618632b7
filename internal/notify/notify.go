// Package notify carries user-facing notifications (toasts) out of the
// stores. A store never knows who is listening; the HTTP layer collects
// them per request and returns them with the response.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Notification struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Nop drops everything.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) {}

// Recorder keeps notifications in arrival order.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Notifications returns a copy; never nil so it encodes as [].
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification{}, r.items...)
}

type recorderKey struct{}

// WithRecorder attaches a fresh Recorder to ctx.
func WithRecorder(ctx context.Context) (context.Context, *Recorder) {
	rec := &Recorder{}
	return context.WithValue(ctx, recorderKey{}, rec), rec
}

func RecorderFrom(ctx context.Context) (*Recorder, bool) {
	rec, ok := ctx.Value(recorderKey{}).(*Recorder)
	return rec, ok
}

// Collected returns what was recorded on ctx, or an empty list.
func Collected(ctx context.Context) []Notification {
	if rec, ok := RecorderFrom(ctx); ok {
		return rec.Notifications()
	}
	return []Notification{}
}

// Context forwards to the Recorder attached to the call's context, if any.
type Context struct{}

func (Context) Notify(ctx context.Context, n Notification) {
	if rec, ok := RecorderFrom(ctx); ok {
		rec.Notify(ctx, n)
	}
}

// Log writes every notification as a debug entry, errors as warnings.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Notify(_ context.Context, n Notification) {
	fields := []zap.Field{
		zap.String("level", string(n.Level)),
		zap.String("title", n.Title),
		zap.String("description", n.Description),
	}
	if n.Level == LevelError {
		l.Logger.Warn("notification", fields...)
		return
	}
	l.Logger.Debug("notification", fields...)
}

type multi []Notifier

// Multi fans out to every non-nil notifier in order.
func Multi(ns ...Notifier) Notifier {
	var out multi
	for _, n := range ns {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (m multi) Notify(ctx context.Context, n Notification) {
	for _, x := range m {
		x.Notify(ctx, n)
	}
}

func Success(title, description string) Notification {
	return Notification{Level: LevelSuccess, Title: title, Description: description}
}

func Info(title, description string) Notification {
	return Notification{Level: LevelInfo, Title: title, Description: description}
}

func Error(title, description string) Notification {
	return Notification{Level: LevelError, Title: title, Description: description}
}

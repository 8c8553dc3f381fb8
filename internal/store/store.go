// Package store is the local SQLite cache: a warm-start mirror of the
// remote collections plus the notification log. The working set is
// authoritative in-session; the cache only serves cold starts and
// persists notifications.
package store

import (
	"context"

	"github.com/nhle/planboard/internal/model"
)

// Cache defines the persistence interface for the local mirror and
// notifications.
type Cache interface {
	// === Collection mirrors ===

	ReplaceTasks(ctx context.Context, tasks []model.Task) error
	GetTasks(ctx context.Context) ([]model.Task, error)
	ReplaceProjects(ctx context.Context, projects []model.Project) error
	GetProjects(ctx context.Context) ([]model.Project, error)
	ReplaceEvents(ctx context.Context, events []model.Event) error
	GetEvents(ctx context.Context) ([]model.Event, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	UnreadNotificationCount(ctx context.Context) (int, error)

	Close() error
}

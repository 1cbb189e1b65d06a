package worker

import (
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/service"
)

// StartLifecycleObservers subscribes the lifecycle observers. The logger is
// registered first so a ticket's log line precedes its notifications.
func StartLifecycleObservers(dispatcher events.Dispatcher, lifecycleLogger *service.LifecycleLogger, notificationService *service.NotificationService) {
	if dispatcher == nil {
		return
	}
	if lifecycleLogger != nil {
		lifecycleLogger.RegisterHandlers(dispatcher)
	}
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
}

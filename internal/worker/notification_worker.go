package worker

import (
	"github.com/spec-kit/support-bot/internal/service"
)

// StartNotificationWorker registers the lifecycle event log handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

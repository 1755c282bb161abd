package ui

import (
	"context"
	"log/slog"
	"sync/atomic"

	"fyne.io/fyne/v2"

	numapp "numwatch/internal/app"
)

func startNotificationService(dep Dependencies, fyApp fyne.App) func() {
	var appForeground atomic.Bool
	appForeground.Store(true)
	fyApp.Lifecycle().SetOnEnteredForeground(func() {
		appForeground.Store(true)
	})
	fyApp.Lifecycle().SetOnExitedForeground(func() {
		appForeground.Store(false)
	})

	notificationsCtx, stopNotifications := context.WithCancel(context.Background())
	notificationService := numapp.NewNotificationService(
		dep.Bus,
		dep.CurrentConfig,
		appForeground.Load,
		NewFyneNotificationSender(fyApp),
		slog.With("component", "ui.notifications"),
	)
	notificationService.Start(notificationsCtx)

	return stopNotifications
}

package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"numwatch/internal/config"
)

func newSettingsTab(dep Dependencies, connStatus *widget.Label) fyne.CanvasObject {
	cfg := dep.Config

	serverURL := widget.NewEntry()
	serverURL.SetText(cfg.Connection.ServerURL)
	serverURL.SetPlaceHolder(config.DefaultServerURL)

	logLevel := widget.NewSelect([]string{"debug", "info", "warn", "error"}, nil)
	logLevel.SetSelected(cfg.Logging.Level)

	logToFile := widget.NewCheck("Write log file", nil)
	logToFile.SetChecked(cfg.Logging.LogToFile)

	notifyNumber := widget.NewCheck("Notify on detected numbers", nil)
	notifyNumber.SetChecked(cfg.UI.Notifications.Events.NumberDetected)

	notifyConn := widget.NewCheck("Notify on connection changes", nil)
	notifyConn.SetChecked(cfg.UI.Notifications.Events.ConnectionStatus)

	notifyFocused := widget.NewCheck("Notify even when focused", nil)
	notifyFocused.SetChecked(cfg.UI.Notifications.NotifyWhenFocused)

	feedback := widget.NewLabel("")
	feedback.Wrapping = fyne.TextWrapWord

	saveButton := widget.NewButton("Save", func() {
		next := dep.Config
		if dep.CurrentConfig != nil {
			next = dep.CurrentConfig()
		}
		next.Connection.ServerURL = serverURL.Text
		next.Logging.Level = logLevel.Selected
		next.Logging.LogToFile = logToFile.Checked
		next.UI.Notifications.Events.NumberDetected = notifyNumber.Checked
		next.UI.Notifications.Events.ConnectionStatus = notifyConn.Checked
		next.UI.Notifications.NotifyWhenFocused = notifyFocused.Checked

		if dep.OnSave == nil {
			return
		}
		if err := dep.OnSave(next); err != nil {
			feedback.SetText("Save failed: " + err.Error())

			return
		}
		feedback.SetText("Saved")
	})

	reconnectButton := widget.NewButton("Reconnect", func() {
		if dep.OnReconnect != nil {
			dep.OnReconnect()
		}
	})

	form := widget.NewForm(
		widget.NewFormItem("Server URL", serverURL),
		widget.NewFormItem("Log level", logLevel),
		widget.NewFormItem("", logToFile),
		widget.NewFormItem("", notifyNumber),
		widget.NewFormItem("", notifyConn),
		widget.NewFormItem("", notifyFocused),
	)

	return container.NewVBox(
		form,
		container.NewHBox(saveButton, reconnectButton),
		feedback,
		connStatus,
	)
}

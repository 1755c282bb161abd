package ui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	numapp "numwatch/internal/app"
	"numwatch/internal/resources"
)

func Run(dep Dependencies) error {
	fyApp := app.NewWithID(numapp.Name)
	icon := resources.TrayIconResource()
	fyApp.SetIcon(icon)

	window := fyApp.NewWindow(formatWindowTitle())
	window.Resize(fyne.NewSize(520, 420))

	display, err := newValueDisplay(dep.Store, fyne.TextStyle{Bold: true, Monospace: true})
	if err != nil {
		return fmt.Errorf("build value display: %w", err)
	}
	statusPanel, err := newStatusPanel(dep.Store)
	if err != nil {
		return fmt.Errorf("build status panel: %w", err)
	}
	history, err := newHistoryTab(dep.Store)
	if err != nil {
		return fmt.Errorf("build history tab: %w", err)
	}

	sidebarConnStatus := widget.NewLabel("")
	settingsConnStatus := widget.NewLabel("")
	settingsTab := newSettingsTab(dep, settingsConnStatus)

	watchTab := container.NewBorder(nil, statusPanel.Object(), nil, nil, container.NewCenter(display.Object()))

	tabContent := map[string]fyne.CanvasObject{
		"Watch":    watchTab,
		"History":  history.Object(),
		"Settings": settingsTab,
	}
	order := []string{"Watch", "History", "Settings"}

	rightStack := container.NewStack()
	for _, key := range order {
		rightStack.Add(tabContent[key])
		tabContent[key].Hide()
	}
	active := "Watch"
	tabContent[active].Show()

	switchTab := func(name string) {
		tabContent[active].Hide()
		active = name
		tabContent[active].Show()
		rightStack.Refresh()
	}

	left := container.NewVBox(widget.NewLabel("Menu"))
	for _, name := range order {
		nameCopy := name
		left.Add(widget.NewButton(nameCopy, func() {
			switchTab(nameCopy)
		}))
	}
	left.Add(layout.NewSpacer())
	left.Add(sidebarConnStatus)

	applyStatus := func() {
		snapshot := dep.Store.Snapshot()
		label, _, _ := statusDisplay(snapshot.State)
		text := "Connection: " + label
		sidebarConnStatus.SetText(text)
		settingsConnStatus.SetText(text)
	}
	applyStatus()

	stopListener := startStoreListener(dep.Store, func() {
		fyne.Do(func() {
			display.Refresh()
			statusPanel.Refresh()
			history.Refresh()
			applyStatus()
		})
	})
	defer stopListener()

	stopNotifications := startNotificationService(dep, fyApp)
	defer stopNotifications()

	content := container.NewBorder(nil, nil, left, nil, rightStack)
	window.SetContent(content)

	var shutdownOnce sync.Once
	quit := func() {
		shutdownOnce.Do(func() {
			if dep.OnQuit != nil {
				dep.OnQuit()
			}
			fyApp.Quit()
		})
	}

	window.SetCloseIntercept(func() {
		window.Hide()
	})

	if desk, ok := fyApp.(desktop.App); ok {
		desk.SetSystemTrayIcon(icon)
		desk.SetSystemTrayMenu(fyne.NewMenu(numapp.Name,
			fyne.NewMenuItem("Show", func() {
				window.Show()
				window.RequestFocus()
			}),
			fyne.NewMenuItem("Quit", func() {
				quit()
			}),
		))
	}

	window.Show()
	fyApp.Run()
	shutdownOnce.Do(func() {
		if dep.OnQuit != nil {
			dep.OnQuit()
		}
	})

	return nil
}

func formatWindowTitle() string {
	return fmt.Sprintf("NumWatch %s", numapp.BuildVersion())
}

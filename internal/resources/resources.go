package resources

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

type UIIcon string

const (
	UIIconConnected    UIIcon = "connected"
	UIIconDisconnected UIIcon = "disconnected"
	UIIconError        UIIcon = "error"
)

//go:embed icons/connected.svg
var iconConnected []byte

//go:embed icons/disconnected.svg
var iconDisconnected []byte

//go:embed icons/error.svg
var iconError []byte

//go:embed icons/tray.svg
var iconTray []byte

func UIIconResource(icon UIIcon) fyne.Resource {
	switch icon {
	case UIIconConnected:
		return fyne.NewStaticResource("connected.svg", iconConnected)
	case UIIconError:
		return fyne.NewStaticResource("error.svg", iconError)
	default:
		return fyne.NewStaticResource("disconnected.svg", iconDisconnected)
	}
}

func TrayIconResource() fyne.Resource {
	return fyne.NewStaticResource("tray.svg", iconTray)
}

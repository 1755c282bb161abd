package ui

import (
	"numwatch/internal/bus"
	"numwatch/internal/config"
	"numwatch/internal/domain"
)

type Dependencies struct {
	Config        config.AppConfig
	Store         *domain.FeedStore
	Bus           bus.MessageBus
	CurrentConfig func() config.AppConfig
	OnSave        func(cfg config.AppConfig) error
	OnReconnect   func()
	OnQuit        func()
}

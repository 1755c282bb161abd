package app

import "time"

const (
	Name               = "numwatch"
	ConfigFilename     = "config.json"
	DBFilename         = "app.db"
	LogFilename        = "app.log"
	RecentReadingsLoad = 100
	ReadingRetention   = 30 * 24 * time.Hour
)

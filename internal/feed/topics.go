package feed

const (
	TopicConnStatus = "conn.status"
	TopicReading    = "feed.reading"
	TopicRawMessage = "feed.raw.in"
)

package publisher

// Publisher fans scored deals out to downstream consumers.
type Publisher interface {
	// Publish publishes one encoded deal onto a stream
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}

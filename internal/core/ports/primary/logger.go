package primary

// Logger is the logging port used across services and adapters.
// Implementations take alternating key/value pairs after the message.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
}

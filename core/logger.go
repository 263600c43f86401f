package core

// Logger is any leveled logging service.
//
// args may carry anything worth reporting alongside the message: an error,
// a map of extra data, or the acting user.User.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

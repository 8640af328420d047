package library

// Logger receives lifecycle notifications from loads and dumps. It has no
// feedback influence on library behavior; implementations render progress
// bars or plain lines as they see fit.
type Logger interface {
	// Infof reports a user-visible event.
	Infof(format string, args ...any)
	// Debugf reports a diagnostic event, usually suppressed.
	Debugf(format string, args ...any)
	// BeginProgress opens a progress scope of total items.
	BeginProgress(title string, total int)
	// Advance ticks the progress scope and updates its description.
	Advance(title, description string)
	// EndProgress closes all open progress scopes.
	EndProgress()
}

// nopLogger discards everything. Used when no sink is configured.
type nopLogger struct{}

func (nopLogger) Infof(string, ...any)      {}
func (nopLogger) Debugf(string, ...any)     {}
func (nopLogger) BeginProgress(string, int) {}
func (nopLogger) Advance(string, string)    {}
func (nopLogger) EndProgress()              {}

package logger

import "sync"

// named holds loggers registered per component, keyed by component name.
var named sync.Map

// Register makes l the logger handed out for component name, tagged with
// that name. A nil l removes the registration.
func Register(name string, l *Logger) {
	if l == nil {
		named.Delete(name)
		return
	}
	named.Store(name, l.WithComponent(name))
}

// Get returns the logger registered for name. Unregistered names get the
// global logger tagged with the component name.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}

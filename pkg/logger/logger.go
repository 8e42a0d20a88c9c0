// Package logger provides a process-wide logging facade that fans out to
// one or more backends. Backends implement LoggerInstance and are registered
// once at startup via Init.
package logger

// LoggerInstance is the interface implemented by logging backends.
type LoggerInstance interface {
	Log(message string, keyvals ...any)
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

// Logger fans log calls out to all registered backends.
type Logger struct {
	instances []LoggerInstance
}

var singleton *Logger

// Init registers the logging backends. Calling Init again replaces the
// previous set of backends.
func Init(instances ...LoggerInstance) {
	singleton = &Logger{
		instances: instances,
	}
}

func getSingleton() *Logger {
	return singleton
}

// Log writes a message at the default level.
func Log(message string, keyvals ...any) {
	l := getSingleton()
	if l == nil {
		return
	}
	for _, instance := range l.instances {
		instance.Log(message, keyvals...)
	}
}

// Debug writes a message at DEBUG level.
func Debug(message string, keyvals ...any) {
	l := getSingleton()
	if l == nil {
		return
	}
	for _, instance := range l.instances {
		instance.Debug(message, keyvals...)
	}
}

// Info writes a message at INFO level.
func Info(message string, keyvals ...any) {
	l := getSingleton()
	if l == nil {
		return
	}
	for _, instance := range l.instances {
		instance.Info(message, keyvals...)
	}
}

// Warn writes a message at WARN level.
func Warn(message string, keyvals ...any) {
	l := getSingleton()
	if l == nil {
		return
	}
	for _, instance := range l.instances {
		instance.Warn(message, keyvals...)
	}
}

// Error writes a message at ERROR level.
func Error(message string, keyvals ...any) {
	l := getSingleton()
	if l == nil {
		return
	}
	for _, instance := range l.instances {
		instance.Error(message, keyvals...)
	}
}

// Fatal writes a message at FATAL level. Backends are expected to terminate
// the process; the console backend does.
func Fatal(message string, keyvals ...any) {
	l := getSingleton()
	if l == nil {
		return
	}
	for _, instance := range l.instances {
		instance.Fatal(message, keyvals...)
	}
}

package internal

import "io"

// Option is a functional option for configuring a run.
type Option func(*application)

type application struct {
	config *Config
	root   string
	stdout io.Writer
	stderr io.Writer
	watch  bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithRoot sets the project root.
func WithRoot(root string) Option {
	return func(a *application) {
		a.root = root
	}
}

// WithOutput sets the report and log writers.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *application) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// WithWatch keeps the docs validator running and re-validates on change.
func WithWatch(enabled bool) Option {
	return func(a *application) {
		a.watch = enabled
	}
}

package internal

// Option customizes how the dashboard server is assembled by Run.
type Option func(*application)

type application struct {
	config *Config
}

// WithConfig supplies the validated dashboard configuration. Run refuses
// to start without one.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

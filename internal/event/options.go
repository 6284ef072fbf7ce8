package event

// BusOption configures an event Bus.
type BusOption func(*busConfig)

type busConfig struct {
	panicHandler PanicHandler
	errorHandler ErrorHandler
}

func defaultBusConfig() busConfig {
	return busConfig{}
}

// WithPanicHandler sets the function told about handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// WithErrorHandler sets the function told about handler errors.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(c *busConfig) {
		c.errorHandler = h
	}
}

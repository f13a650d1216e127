package web

// Options collects what dependent code contributes to the engine before it is
// built. Modules that depend on web usually add routes in their own
// Initialize via Engine instead.
type Options struct {
	Routes      []func(r Router)
	Middlewares []Handler
}

type Option func(*Options)

// WithRoutes registers f to run against the engine during Initialize.
func WithRoutes(f func(r Router)) Option {
	return func(o *Options) { o.Routes = append(o.Routes, f) }
}

// WithMiddlewares appends handlers after the built-in request id, recovery
// and access log middlewares.
func WithMiddlewares(m ...Handler) Option {
	return func(o *Options) { o.Middlewares = append(o.Middlewares, m...) }
}

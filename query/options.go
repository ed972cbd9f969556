package query

import "log/slog"

// Option configures a NavigationQuery.
type Option func(*NavigationQuery)

// WithLogger sets the logger used for search reports.
func WithLogger(logger *slog.Logger) Option {
	return func(nq *NavigationQuery) {
		if logger != nil {
			nq.logger = logger
		}
	}
}

// WithSettings replaces DefaultSettings.
func WithSettings(settings Settings) Option {
	return func(nq *NavigationQuery) {
		nq.settings = settings
	}
}

// WithOpenNodeObserver forwards opened links to observer when
// Settings.DebugOpenNodes is set.
func WithOpenNodeObserver(observer OpenNodeObserver) Option {
	return func(nq *NavigationQuery) {
		nq.observer = observer
	}
}

package gridedit

import (
	"time"

	"golang.org/x/text/language"
)

// DefaultMergeWindow is how close together two edits of the same cell must be
// to collapse into one undo step.
const DefaultMergeWindow = 2 * time.Second

// Options holds configuration for a Session.
type Options struct {
	logger         Logger
	readOnlyFields []string
	maxHistory     int
	mergeWindow    time.Duration
	locale         language.Tag
	clock          func() time.Time
	listeners      []ChangeListener
}

func defaultOptions() *Options {
	return &Options{
		logger:      NopLogger{},
		maxHistory:  DefaultMaxHistory,
		mergeWindow: DefaultMergeWindow,
		locale:      language.English,
		clock:       time.Now,
	}
}

// Option configures a Session.
type Option func(*Options)

// WithLogger sets the logger used by every component of the session.
func WithLogger(l Logger) Option {
	return func(o *Options) { o.logger = orNop(l) }
}

// WithReadOnlyFields marks fields as read-only regardless of their metadata.
func WithReadOnlyFields(fields ...string) Option {
	return func(o *Options) { o.readOnlyFields = append(o.readOnlyFields, fields...) }
}

// WithMaxHistory bounds the undo history (default: 100).
func WithMaxHistory(n int) Option {
	return func(o *Options) { o.maxHistory = n }
}

// WithMergeWindow sets the window for merging edits of the same cell (default: 2s).
// Zero disables merging.
func WithMergeWindow(d time.Duration) Option {
	return func(o *Options) { o.mergeWindow = d }
}

// WithLocale sets the locale used to format aggregation results (default: English).
func WithLocale(tag language.Tag) Option {
	return func(o *Options) { o.locale = tag }
}

// WithClock replaces time.Now for command timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.clock = now }
}

// WithChangeListener adds a listener notified whenever a cell value is set.
func WithChangeListener(l ChangeListener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, l) }
}

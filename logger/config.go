package logger

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/globalmentor/globalmentor-log/core"
	"github.com/globalmentor/globalmentor-log/writerpool"
)

// Affiliation selects what constitutes a resolution key: one logger per
// named type, or one logger shared by every type in a package.
type Affiliation int8

const (
	// PackageAffiliation keys loggers by the category's package.
	PackageAffiliation Affiliation = iota
	// ClassAffiliation keys loggers by the category's full name.
	ClassAffiliation
)

// Configuration resolves loggers for calling contexts and owns the
// writer pool backing its file destinations.
type Configuration interface {
	// Logger resolves the logger for the caller's context, determined
	// from the call stack.
	Logger() Logger
	// LoggerFor resolves the logger for an explicit category.
	LoggerFor(c *Category) Logger
	// Register installs a logger for a category, permanently retiring
	// the common-logger fast path.
	Register(c *Category, l Logger)
	// Unregister removes a category's registration. The common-logger
	// path is not restored even if no registrations remain.
	Unregister(c *Category)
	// Dispose closes all pooled writers. Idempotent, and safe to call
	// on a configuration that was never used.
	Dispose() error
}

// Config carries the construction-time settings of a configuration.
// The zero value is a usable default: common logger permitted, package
// affiliation, info minimum level, all report fields, console output.
type Config struct {
	// File is the destination path given to loggers made by the
	// default factory; empty means console only.
	File string
	// Writer is an externally owned destination; mutually exclusive
	// with File, and File wins if both are set.
	Writer io.Writer
	// Levels is the enabled severity set; zero means info and above.
	Levels core.LevelSet
	// Report is the rendered field set; zero means all fields.
	Report core.ReportSet
	// Affiliation selects class or package resolution keys.
	Affiliation Affiliation
	// Pool configures the writer pool backing file destinations.
	Pool []writerpool.Option
	// Factory builds the logger for an unresolved category. Nil means
	// a Dispatcher built from the settings above.
	Factory func(c *Category) Logger
	// Display is attached to loggers made by the default factory.
	Display Display
	// DisableCommonLogger forces per-category resolution even while no
	// registrations exist.
	DisableCommonLogger bool
}

// commonCategory is the context handed to the factory for the shared
// fallback logger.
var commonCategory = NewCategory("common")

// DefaultConfiguration is the standard Configuration: a read-heavy
// resolution cache over a registration map, with a lock-free
// common-logger fast path while no registrations exist and
// ancestor-fallback resolution once they do.
type DefaultConfiguration struct {
	cfg  Config
	pool *writerpool.Pool

	mu      sync.RWMutex
	loggers map[string]Logger
	// cached marks keys installed by resolution rather than Register,
	// so Unregister can sweep stale fallbacks without touching other
	// explicit registrations of the same logger.
	cached map[string]bool

	// common is created at most observably once; concurrent first
	// callers may race to build it, the loser's instance is discarded.
	common        atomic.Pointer[Logger]
	commonRetired atomic.Bool

	// traversals counts ancestor-fallback walks, exposed so tests can
	// verify that resolved categories are cache hits.
	traversals atomic.Uint64
}

// NewConfiguration returns a configuration with the given settings,
// filling zero-value fields with the defaults documented on Config.
func NewConfiguration(cfg Config) *DefaultConfiguration {
	if cfg.Levels.IsEmpty() {
		cfg.Levels = core.MinLevelSet(core.InfoLevel)
	}
	if cfg.Report == 0 {
		cfg.Report = core.AllReports
	}
	c := &DefaultConfiguration{
		cfg:     cfg,
		pool:    writerpool.New(cfg.Pool...),
		loggers: make(map[string]Logger),
		cached:  make(map[string]bool),
	}
	if c.cfg.Factory == nil {
		c.cfg.Factory = c.newDispatcher
	}
	return c
}

// newDispatcher is the default factory: a Dispatcher configured from
// the Config settings, sharing this configuration's writer pool.
func (c *DefaultConfiguration) newDispatcher(*Category) Logger {
	d := NewDispatcher(c.pool).
		SetLevels(c.cfg.Levels).
		SetReport(c.cfg.Report).
		SetDisplay(c.cfg.Display)
	switch {
	case c.cfg.File != "":
		d.SetFile(c.cfg.File)
		d.SetStandardOutput(false)
	case c.cfg.Writer != nil:
		d.SetWriter(c.cfg.Writer)
		d.SetStandardOutput(false)
	}
	return d
}

// Pool returns the writer pool backing this configuration's file
// destinations.
func (c *DefaultConfiguration) Pool() *writerpool.Pool { return c.pool }

// Logger resolves the logger for the caller's context.
func (c *DefaultConfiguration) Logger() Logger {
	if c.commonMode() {
		return c.commonLogger()
	}
	return c.LoggerFor(callerCategory(core.CallingSite()))
}

// LoggerFor resolves the logger for a category: the common logger while
// no registrations exist, otherwise the registration map, falling back
// through the category's ancestors and caching the result onto the
// category's own key so later lookups are O(1).
func (c *DefaultConfiguration) LoggerFor(category *Category) Logger {
	if c.commonMode() {
		return c.commonLogger()
	}

	key := c.keyFor(category)
	c.mu.RLock()
	l, ok := c.loggers[key]
	c.mu.RUnlock()
	if ok {
		return l
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have resolved the key in the meantime.
	if l, ok := c.loggers[key]; ok {
		return l
	}
	c.traversals.Add(1)
	for _, ancestor := range category.Ancestors() {
		if l, ok := c.loggers[c.keyFor(ancestor)]; ok {
			c.loggers[key] = l
			c.cached[key] = true
			return l
		}
	}
	l = c.cfg.Factory(category)
	c.loggers[key] = l
	c.cached[key] = true
	return l
}

// Register installs a logger for a category and permanently retires the
// common-logger fast path.
func (c *DefaultConfiguration) Register(category *Category, l Logger) {
	key := c.keyFor(category)
	c.mu.Lock()
	c.loggers[key] = l
	delete(c.cached, key)
	c.mu.Unlock()
	c.commonRetired.Store(true)
}

// Unregister removes a category's registration along with any cached
// fallback resolutions that point at it. Explicit registrations of the
// same logger under other categories are left alone.
func (c *DefaultConfiguration) Unregister(category *Category) {
	key := c.keyFor(category)
	c.mu.Lock()
	defer c.mu.Unlock()
	removed, ok := c.loggers[key]
	if !ok {
		return
	}
	delete(c.loggers, key)
	delete(c.cached, key)
	for k := range c.cached {
		if c.loggers[k] == removed {
			delete(c.loggers, k)
			delete(c.cached, k)
		}
	}
}

// Reset clears all registrations and cached resolutions and restores
// the common-logger fast path.
func (c *DefaultConfiguration) Reset() {
	c.mu.Lock()
	c.loggers = make(map[string]Logger)
	c.cached = make(map[string]bool)
	c.mu.Unlock()
	c.common.Store(nil)
	c.commonRetired.Store(false)
	c.traversals.Store(0)
}

// TraversalCount returns how many ancestor-fallback walks have run.
func (c *DefaultConfiguration) TraversalCount() uint64 {
	return c.traversals.Load()
}

// Dispose closes all pooled writers.
func (c *DefaultConfiguration) Dispose() error {
	return c.pool.Dispose()
}

func (c *DefaultConfiguration) commonMode() bool {
	return !c.cfg.DisableCommonLogger && !c.commonRetired.Load()
}

// commonLogger returns the shared fallback logger, creating it on first
// use. Two goroutines may race to create it; the compare-and-swap loser
// discards its instance, which holds no resources of its own.
func (c *DefaultConfiguration) commonLogger() Logger {
	if p := c.common.Load(); p != nil {
		return *p
	}
	l := c.cfg.Factory(commonCategory)
	if c.common.CompareAndSwap(nil, &l) {
		return l
	}
	return *c.common.Load()
}

func (c *DefaultConfiguration) keyFor(category *Category) string {
	if c.cfg.Affiliation == ClassAffiliation {
		return category.Name()
	}
	return category.Package()
}

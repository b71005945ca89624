package cmd

// Options holds the shared command-line options for the statcard CLI.
// Zero values leave the configured (or default) setting in place.
type Options struct {
	Username   string
	OutputDir  string
	ReadmePath string
	IndexPath  string
	Workers    int
	RepoLimit  int
	Verbosity  int
	TUI        *bool // nil = auto-detect, true = force TUI, false = disable TUI

	NoCache bool // Skip the on-disk language cache
	Publish bool // Upload generated files even if publish.enabled is false

	// Profiling options
	CPUProfile string // Write CPU profile to file
	MemProfile string // Write memory profile to file
	Trace      string // Write execution trace to file
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithUsername overrides the GitHub user to report on.
func WithUsername(username string) Option {
	return func(o *Options) {
		o.Username = username
	}
}

// WithOutputDir sets the directory the SVG cards are written to.
func WithOutputDir(dir string) Option {
	return func(o *Options) {
		o.OutputDir = dir
	}
}

// WithReadmePath sets the README output path.
func WithReadmePath(path string) Option {
	return func(o *Options) {
		o.ReadmePath = path
	}
}

// WithIndexPath sets the HTML page output path.
func WithIndexPath(path string) Option {
	return func(o *Options) {
		o.IndexPath = path
	}
}

// WithWorkers sets the number of concurrent workers.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithRepoLimit caps how many repositories have their commits scanned.
func WithRepoLimit(limit int) Option {
	return func(o *Options) {
		o.RepoLimit = limit
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}

// WithNoCache disables the language cache.
func WithNoCache(noCache bool) Option {
	return func(o *Options) {
		o.NoCache = noCache
	}
}

// WithPublish forces publishing of the generated files.
func WithPublish(publish bool) Option {
	return func(o *Options) {
		o.Publish = publish
	}
}

// WithCPUProfile sets the CPU profile output file.
func WithCPUProfile(path string) Option {
	return func(o *Options) {
		o.CPUProfile = path
	}
}

// WithMemProfile sets the memory profile output file.
func WithMemProfile(path string) Option {
	return func(o *Options) {
		o.MemProfile = path
	}
}

// WithTrace sets the execution trace output file.
func WithTrace(path string) Option {
	return func(o *Options) {
		o.Trace = path
	}
}

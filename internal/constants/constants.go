// Package constants provides a centralized location for all configuration
// values and magic numbers used throughout the statcard application.
package constants

import "time"

// Defaults applied when neither config files nor the environment set a value.
const (
	// DefaultUsername is the GitHub user reported on when GITHUB_USERNAME is unset.
	DefaultUsername = "petarzarkov"

	// DefaultOutputDir is where the SVG cards are written.
	DefaultOutputDir = "generated"

	// DefaultReadmePath is the generated README location.
	DefaultReadmePath = "README.md"

	// DefaultIndexPath is the generated HTML page location.
	DefaultIndexPath = "index.html"

	// DefaultWorkers bounds concurrent per-repository requests.
	DefaultWorkers = 10
)

// Generated SVG file names, relative to the output directory.
const (
	OverviewSVG     = "stats-overview.svg"
	LanguagesSVG    = "languages.svg"
	ProductivitySVG = "productivity.svg"
)

// Reporting windows and limits.
const (
	// ContributionDays is the trailing window of the contribution calendar,
	// matching the GitHub profile view.
	ContributionDays = 365

	// MaxContributionDays is the longest range contributionsCollection accepts.
	MaxContributionDays = 365

	// ActivityDays is the trailing window of the per-repository activity series.
	ActivityDays = 30

	// RepoCommitLimit caps how many repositories have their commits fetched.
	RepoCommitLimit = 50

	// TopRepoCount is how many repositories are ranked by stars or activity.
	TopRepoCount = 5

	// TopLanguageCount is how many languages the languages card shows before
	// folding the rest into "Other".
	TopLanguageCount = 8

	// OtherLanguageThreshold is the minimum remainder percentage for the
	// "Other" bucket to be displayed.
	OtherLanguageThreshold = 0.5

	// BytesPerLine estimates lines of code from language byte counts.
	BytesPerLine = 70
)

// TUI update and display constants
const (
	// TUIUpdateInterval is the minimum time between TUI progress updates.
	TUIUpdateInterval = 50 * time.Millisecond

	// LogThrottlePercent is the interval (in percent) at which progress
	// logs are emitted when not using the TUI.
	LogThrottlePercent = 10
)

// Rate limiting constants
const (
	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 100
)

// Cache constants
const (
	// LanguageCacheTTL is how long per-repository language bytes and the
	// language color table are reused before re-fetching.
	LanguageCacheTTL = 24 * time.Hour

	// CacheMaxEntries bounds the in-memory cache.
	CacheMaxEntries = 10_000
)

// HistoryMaxRecords is the number of run snapshots kept on disk.
const HistoryMaxRecords = 1000

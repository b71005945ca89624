package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/spiffcs/statcard/config"
	"github.com/spiffcs/statcard/internal/aggregate"
	"github.com/spiffcs/statcard/internal/cache"
	"github.com/spiffcs/statcard/internal/constants"
	"github.com/spiffcs/statcard/internal/document"
	"github.com/spiffcs/statcard/internal/ghclient"
	"github.com/spiffcs/statcard/internal/log"
	"github.com/spiffcs/statcard/internal/model"
	"github.com/spiffcs/statcard/internal/publish"
	"github.com/spiffcs/statcard/internal/render"
	"github.com/spiffcs/statcard/internal/service"
	"github.com/spiffcs/statcard/internal/stats"
	"github.com/spiffcs/statcard/internal/tui"
)

// genRuntime bundles TUI-related state that's threaded through the generate command.
type genRuntime struct {
	useTUI  bool
	out     io.Writer
	events  chan tui.Event
	tuiDone chan error
}

// startTUI initializes and starts the TUI goroutine if TUI mode is enabled.
func (rt *genRuntime) startTUI() {
	if !rt.useTUI {
		return
	}
	rt.events = make(chan tui.Event, 100)
	rt.tuiDone = make(chan error, 1)
	go func() {
		rt.tuiDone <- tui.Run(rt.events)
	}()
}

// close closes the event channel and waits for the TUI to finish.
func (rt *genRuntime) close() {
	if rt.events == nil {
		return
	}
	close(rt.events)
	if rt.tuiDone != nil {
		<-rt.tuiDone
	}
	rt.events = nil
}

// sendEvent sends a task event to the TUI channel if it exists.
func (rt *genRuntime) sendEvent(task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	if rt.events == nil {
		return
	}
	tui.SendTaskEvent(rt.events, task, status, opts...)
}

// step prints a console progress line when the TUI is not drawing.
func (rt *genRuntime) step(msg string) {
	if rt.useTUI || rt.out == nil {
		return
	}
	log.ProgressClear()
	fmt.Fprintln(rt.out, msg)
}

// fail marks task as failed and wraps err as a generate failure.
func (rt *genRuntime) fail(task tui.TaskID, err error) error {
	rt.sendEvent(task, tui.StatusError, tui.WithError(err))
	rt.close()
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return err
	}
	return &GenerateError{Err: err}
}

// artifact is one generated file.
type artifact struct {
	// Path is where the file is written locally.
	Path    string
	Content string
}

// NewCmdGenerate creates the generate command.
func NewCmdGenerate(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate stat cards, README and HTML page (same as root statcard)",
		Long: `Fetches GitHub data for the configured user and writes:

  <output-dir>/stats-overview.svg
  <output-dir>/languages.svg
  <output-dir>/productivity.svg
  README.md
  index.html

The token is read from GITHUB_TOKEN (a .env file in the working directory
is loaded automatically).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	addGenerateFlags(cmd, opts)
	return cmd
}

// addGenerateFlags adds the generate flags to a command.
func addGenerateFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "GitHub user to generate stats for (default from config or GITHUB_USERNAME)")
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "Directory for the generated SVG cards")
	cmd.Flags().StringVar(&opts.ReadmePath, "readme", "", "Path of the generated README")
	cmd.Flags().StringVar(&opts.IndexPath, "index", "", "Path of the generated HTML page")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Concurrent per-repository requests (default 10)")
	cmd.Flags().IntVar(&opts.RepoLimit, "repo-limit", 0, "Repositories scanned for commits (default 50)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Bypass the language cache")
	cmd.Flags().BoolVar(&opts.Publish, "publish", false, "Upload generated files to the configured bucket")

	// TUI flag with tri-state: nil = auto, true = force, false = disable
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable TUI progress (default: auto-detect)")

	// Profiling flags
	cmd.Flags().StringVar(&opts.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&opts.MemProfile, "memprofile", "", "Write memory profile to file")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "Write execution trace to file")
}

func runGenerate(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	out := cmd.OutOrStdout()

	rt, cleanup, err := setupRuntime(opts, out)
	if err != nil {
		return err
	}
	defer cleanup()

	rt.step("🚀 Starting GitHub Stats Factory...\n")
	rt.startTUI()

	// Validate
	rt.sendEvent(tui.TaskValidate, tui.StatusRunning)
	cfg, err := loadConfig(opts)
	if err != nil {
		return rt.fail(tui.TaskValidate, err)
	}
	rt.sendEvent(tui.TaskValidate, tui.StatusComplete, tui.WithMessage(cfg.Username))

	c := openCache(cfg, opts.NoCache)
	client, err := newClient(ctx, cfg, c)
	if err != nil {
		return rt.fail(tui.TaskValidate, err)
	}

	// Fetch
	rt.step("📡 Step 1: Fetching GitHub data...")
	now := time.Now().UTC()
	result, err := fetch(ctx, rt, client, c, cfg, now)
	if err != nil {
		return rt.fail(tui.TaskFetch, err)
	}
	rt.step("✅ Data fetched successfully\n")

	// Aggregate
	rt.sendEvent(tui.TaskAggregate, tui.StatusRunning)
	report := aggregate.Build(aggregate.Input{
		Username:         cfg.Username,
		Profile:          result.Profile,
		Repositories:     result.Repositories,
		Contributions:    result.Contributions,
		Languages:        result.Languages,
		Commits:          result.Commits,
		Colors:           result.Colors,
		ContributionDays: cfg.ContributionDays,
		ActivityDays:     cfg.ActivityDays,
	}, now)
	rt.sendEvent(tui.TaskAggregate, tui.StatusComplete,
		tui.WithMessage(fmt.Sprintf("%d languages, %d commits", len(report.Languages), len(report.CommitData))))

	// Render
	rt.sendEvent(tui.TaskRender, tui.StatusRunning)
	artifacts, err := renderArtifacts(rt, cfg, report, now)
	if err != nil {
		return rt.fail(tui.TaskRender, err)
	}
	rt.sendEvent(tui.TaskRender, tui.StatusComplete, tui.WithCount(len(artifacts)))

	// Write
	rt.sendEvent(tui.TaskWrite, tui.StatusRunning)
	if err := writeArtifacts(artifacts); err != nil {
		return rt.fail(tui.TaskWrite, err)
	}
	rt.sendEvent(tui.TaskWrite, tui.StatusComplete, tui.WithCount(len(artifacts)))

	// Publish
	published := false
	if cfg.PublishEnabled() {
		rt.sendEvent(tui.TaskPublish, tui.StatusRunning)
		keys, err := publishArtifacts(ctx, cfg.PublishSettings(), artifacts)
		if err != nil {
			return rt.fail(tui.TaskPublish, err)
		}
		published = true
		log.Info("published generated files", "bucket", cfg.Publish.Bucket, "objects", len(keys))
		rt.sendEvent(tui.TaskPublish, tui.StatusComplete, tui.WithCount(len(keys)))
	} else {
		rt.sendEvent(tui.TaskPublish, tui.StatusSkipped)
	}

	// History
	previous := recordRun(report, result.CacheHits, published, now, time.Since(started))

	rt.close()
	writeSummary(out, report, previous)
	return nil
}

// setupRuntime starts profiling, configures logging and returns a cleanup
// function for profiling.
func setupRuntime(opts *Options, out io.Writer) (*genRuntime, func(), error) {
	stopProfiling, err := startProfiling(opts.CPUProfile, opts.MemProfile, opts.Trace)
	if err != nil {
		return nil, nil, err
	}

	useTUI := shouldUseTUI(opts)

	// suppress logs while the TUI owns the terminal
	if useTUI {
		log.Initialize(opts.Verbosity, io.Discard)
	} else {
		log.Initialize(opts.Verbosity, os.Stderr)
	}

	return &genRuntime{useTUI: useTUI, out: out}, stopProfiling, nil
}

// loadConfig loads configuration, applies command-line overrides and
// validates the result.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyOptions(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOptions lets flags take precedence over files and the environment.
func applyOptions(cfg *config.Config, opts *Options) {
	if opts.Username != "" {
		cfg.Username = opts.Username
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.ReadmePath != "" {
		cfg.ReadmePath = opts.ReadmePath
	}
	if opts.IndexPath != "" {
		cfg.IndexPath = opts.IndexPath
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	if opts.RepoLimit > 0 {
		cfg.RepoLimit = opts.RepoLimit
	}
	if opts.Publish {
		if cfg.Publish == nil {
			cfg.Publish = &config.PublishConfig{}
		}
		cfg.Publish.Enabled = true
	}
}

// openCache opens the language cache. Failures disable caching.
func openCache(cfg *config.Config, disabled bool) *cache.Cache {
	if disabled {
		log.Info("language cache disabled")
		return nil
	}
	c, err := cache.NewCache(cfg.CacheTTL())
	if err != nil {
		log.Warn("failed to initialize cache", "error", err)
		return nil
	}
	return c
}

func newClient(ctx context.Context, cfg *config.Config, c *cache.Cache) (*ghclient.Client, error) {
	var opts []ghclient.Option
	if c != nil {
		opts = append(opts, ghclient.WithColorCache(c))
	}
	return ghclient.NewClient(ctx, cfg.GetGitHubToken(), opts...)
}

// fetch runs the fetcher with progress reporting.
func fetch(ctx context.Context, rt *genRuntime, client *ghclient.Client, c *cache.Cache, cfg *config.Config, now time.Time) (*service.FetchResult, error) {
	rt.sendEvent(tui.TaskFetch, tui.StatusRunning)
	log.Info("fetching GitHub data", "user", cfg.Username, "workers", cfg.Workers, "repo_limit", cfg.RepoLimit)

	// a nil *cache.Cache must not become a non-nil interface
	var langCache service.LanguageCache
	if c != nil {
		langCache = c
	}
	svc := service.New(client, langCache)
	fetcher := service.NewFetcher(svc, newFetchProgress(rt))

	result, err := fetcher.FetchAll(ctx, service.FetchOptions{
		Username:         cfg.Username,
		Now:              now,
		ContributionDays: cfg.ContributionDays,
		RepoLimit:        cfg.RepoLimit,
		Workers:          cfg.Workers,
	})
	if !rt.useTUI {
		log.ProgressDone()
	}

	if _, _, resetAt, limited := client.RateLimitState().Status(); limited || (result != nil && result.RateLimited) {
		tui.SendEvent(rt.events, tui.RateLimitEvent{Limited: true, ResetAt: resetAt})
		log.Warn("GitHub rate limit reached, some repositories were skipped", "reset", resetAt.Format(time.Kitchen))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to fetch GitHub data: %w", err)
	}

	msg := fmt.Sprintf("%d repos, %d commits", len(result.Repositories), len(result.Commits))
	if result.CacheHits > 0 {
		msg = fmt.Sprintf("%s (%d cached)", msg, result.CacheHits)
	}
	rt.sendEvent(tui.TaskFetch, tui.StatusComplete, tui.WithProgress(1), tui.WithMessage(msg))
	return result, nil
}

// newFetchProgress throttles repository progress to the TUI or the log.
func newFetchProgress(rt *genRuntime) service.ProgressFunc {
	var lastTUIUpdate atomic.Int64
	var lastLogPercent atomic.Int64
	lastLogPercent.Store(-1)
	interval := int64(constants.TUIUpdateInterval)

	return func(phase service.Phase, completed, total int) {
		if phase != service.PhaseRepositories || total == 0 {
			return
		}

		if rt.useTUI {
			now := time.Now().UnixNano()
			last := lastTUIUpdate.Load()
			if now-last >= interval || completed == total {
				if lastTUIUpdate.CompareAndSwap(last, now) {
					rt.sendEvent(tui.TaskFetch, tui.StatusRunning,
						tui.WithProgress(float64(completed)/float64(total)),
						tui.WithMessage(fmt.Sprintf("%d/%d", completed, total)))
				}
			}
			return
		}

		percent := int64(completed * 100 / total)
		if percent != lastLogPercent.Load() && percent%constants.LogThrottlePercent == 0 {
			lastLogPercent.Store(percent)
			log.Progress("Fetching repository details: %d/%d (%d%%)...", completed, total, percent)
		}
	}
}

// renderArtifacts renders the cards and both documents. Nothing is written.
func renderArtifacts(rt *genRuntime, cfg *config.Config, report *model.GitHubStats, now time.Time) ([]artifact, error) {
	rt.step("🎨 Step 2: Generating SVG cards...")
	cards, err := render.RenderAll(report)
	if err != nil {
		return nil, err
	}

	var artifacts []artifact
	for _, name := range []string{constants.OverviewSVG, constants.LanguagesSVG, constants.ProductivitySVG} {
		artifacts = append(artifacts, artifact{
			Path:    filepath.Join(cfg.OutputDir, name),
			Content: cards.Files()[name],
		})
		rt.step("  ✓ Generated " + name)
	}
	rt.step("✅ SVG cards generated\n")

	profile := cfg.DocumentProfile()

	rt.step("📝 Step 3: Generating README.md...")
	readme, err := buildReadme(cfg, profile)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, artifact{Path: cfg.ReadmePath, Content: readme})
	rt.step("✅ README.md generated\n")

	rt.step("🌐 Step 4: Generating index.html...")
	html, err := document.HTML(report, profile, now)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, artifact{Path: cfg.IndexPath, Content: html})
	rt.step("✅ index.html generated\n")

	return artifacts, nil
}

// buildReadme renders the full README, or in inject mode refreshes only
// the stats block of the existing one.
func buildReadme(cfg *config.Config, profile document.Profile) (string, error) {
	if cfg.ReadmeMode() != config.ReadmeInject {
		return document.Readme(profile)
	}

	existing, err := os.ReadFile(cfg.ReadmePath)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("no README to inject into, generating a new one", "path", cfg.ReadmePath)
		return document.Readme(profile)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read README: %w", err)
	}
	return document.InjectStats(string(existing), profile)
}

// writeArtifacts writes every file, creating parent directories.
func writeArtifacts(artifacts []artifact) error {
	for _, a := range artifacts {
		if err := writeFileAtomic(a.Path, a.Content); err != nil {
			return err
		}
		log.Debug("wrote file", "path", a.Path, "bytes", len(a.Content))
	}
	return nil
}

// writeFileAtomic writes to a temp file and renames it into place.
func writeFileAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// publishArtifacts uploads the generated files under their local relative paths.
func publishArtifacts(ctx context.Context, settings publish.Settings, artifacts []artifact) ([]string, error) {
	p, err := publish.New(settings)
	if err != nil {
		return nil, err
	}
	return p.Publish(ctx, publishFiles(artifacts))
}

func publishFiles(artifacts []artifact) []publish.File {
	files := make([]publish.File, 0, len(artifacts))
	for _, a := range artifacts {
		files = append(files, publish.File{Name: objectName(a.Path), Content: []byte(a.Content)})
	}
	return files
}

// objectName maps a local path to an object key. Absolute paths keep only
// the file name.
func objectName(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Base(p)
	}
	name := filepath.ToSlash(filepath.Clean(p))
	return strings.TrimPrefix(name, "./")
}

// recordRun appends a snapshot to the run history and returns the previous
// snapshot for the same user, if any. History failures are logged only.
func recordRun(report *model.GitHubStats, cacheHits int, published bool, now time.Time, elapsed time.Duration) *stats.Snapshot {
	store, err := stats.NewStore()
	if err != nil {
		log.Warn("could not open run history", "error", err)
		return nil
	}

	var previous *stats.Snapshot
	recent := store.Recent(constants.HistoryMaxRecords)
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Username == report.Username {
			previous = &recent[i]
			break
		}
	}

	snap := stats.NewSnapshot(report, now, elapsed)
	snap.CacheHits = cacheHits
	snap.Published = published
	if err := store.Append(snap); err != nil {
		log.Warn("could not record run history", "error", err)
	}
	return previous
}

// Package search walks directory trees and streams files matching a name,
// extension and optional content criterion.
package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bamsammich/twinpane/internal/catalog"
	"github.com/bamsammich/twinpane/internal/event"
	"github.com/bamsammich/twinpane/internal/filter"
)

const (
	// DefaultContentMaxSize bounds the files whose content is inspected.
	DefaultContentMaxSize = 10 << 20

	// DefaultPrecountCap bounds the directory pre-count used for progress.
	DefaultPrecountCap = 10_000
)

// DefaultTextExtensions is the allow-list of files whose content is searched.
var DefaultTextExtensions = []string{
	".txt", ".md", ".log", ".csv", ".tsv", ".ini", ".cfg", ".conf", ".toml", ".yaml", ".yml",
	".json", ".xml", ".html", ".htm", ".css", ".js", ".ts", ".py", ".go", ".c", ".h", ".cpp",
	".hpp", ".java", ".rs", ".sh", ".bat", ".ps1", ".sql",
}

var (
	// ErrNoRoots rejects criteria without a single usable root.
	ErrNoRoots = errors.New("no search roots")

	// ErrBadPattern rejects a malformed name glob.
	ErrBadPattern = errors.New("invalid name pattern")
)

// Criteria selects the files a search reports. Empty fields match
// everything.
type Criteria struct {
	Exclude          *filter.Chain // optional pruning rules, relative to each root
	NamePattern      string        // substring, or glob when it contains * or ?
	Extension        string        // ".txt" exact, "txt" suffix
	ContentSubstring string
	Roots            []string
	SearchInContent  bool
	CaseSensitive    bool
}

// Result is one match.
type Result = event.Found

// Summary is the terminal state of a search.
type Summary struct {
	Message    string
	Errors     []string
	TotalFound int
	Success    bool
	Cancelled  bool
}

// Config controls the search engine.
type Config struct {
	Logger         *slog.Logger
	TextExtensions []string // defaults to DefaultTextExtensions
	ContentMaxSize int64    // defaults to DefaultContentMaxSize
	PrecountCap    int      // defaults to DefaultPrecountCap
}

// Engine runs searches. It is safe for concurrent use; each Run is
// independent.
type Engine struct {
	logger  *slog.Logger
	textExt map[string]bool
	cfg     Config
}

// New creates an Engine.
func New(cfg Config) *Engine {
	if cfg.ContentMaxSize <= 0 {
		cfg.ContentMaxSize = DefaultContentMaxSize
	}
	if cfg.PrecountCap <= 0 {
		cfg.PrecountCap = DefaultPrecountCap
	}
	if len(cfg.TextExtensions) == 0 {
		cfg.TextExtensions = DefaultTextExtensions
	}
	e := &Engine{cfg: cfg, logger: cfg.Logger, textExt: make(map[string]bool)}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	for _, ext := range cfg.TextExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.textExt[ext] = true
	}
	return e
}

// WithLogger returns a copy of e that logs to l.
func (e *Engine) WithLogger(l *slog.Logger) *Engine {
	c := *e
	c.logger = l
	return &c
}

// Run walks every root, emitting each match through obs as it is found.
// Finished is always the last event.
func (e *Engine) Run(ctx context.Context, c Criteria, obs event.Observer) Summary {
	rep := event.NewReporter(obs)
	s := e.run(ctx, c, rep)
	rep.Finish(event.Done{
		Success:    s.Success,
		Message:    s.Message,
		Errors:     s.Errors,
		TotalFound: s.TotalFound,
	})
	return s
}

func (e *Engine) run(ctx context.Context, c Criteria, rep *event.Reporter) Summary {
	m, err := newMatcher(c, e)
	if err != nil {
		e.logger.Warn("search rejected", "error", err)
		return Summary{Message: err.Error()}
	}

	var s Summary
	roots, rootErrs := dedupRoots(c.Roots)
	s.Errors = rootErrs
	if len(roots) == 0 {
		s.Message = ErrNoRoots.Error()
		return s
	}

	rep.Text("Counting folders...")
	totalDirs, err := countDirs(ctx, roots, c.Exclude, e.cfg.PrecountCap)
	if err != nil {
		return cancelled(s)
	}
	e.logger.Info("search started",
		"roots", len(roots),
		"name", c.NamePattern,
		"ext", c.Extension,
		"content", c.SearchInContent,
		"dirs", totalDirs,
	)
	rep.Percent(0)

	w := &walker{
		ctx:       ctx,
		m:         m,
		rep:       rep,
		exclude:   c.Exclude,
		logger:    e.logger,
		totalDirs: totalDirs,
	}
	for _, root := range roots {
		if err := w.walk(root); err != nil {
			s.TotalFound = w.found
			s.Errors = append(s.Errors, w.errs...)
			return cancelled(s)
		}
	}

	s.TotalFound = w.found
	s.Errors = append(s.Errors, w.errs...)
	s.Success = true
	s.Message = fmt.Sprintf("found %d matches", w.found)
	if w.found == 1 {
		s.Message = "found 1 match"
	}
	e.logger.Info("search finished", "found", w.found, "dirs", w.visitedDirs, "errors", len(w.errs))
	return s
}

func cancelled(s Summary) Summary {
	s.Cancelled = true
	s.Success = false
	s.Message = "cancelled"
	return s
}

// walker holds the state of one search pass.
type walker struct {
	ctx         context.Context
	m           *matcher
	rep         *event.Reporter
	exclude     *filter.Chain
	logger      *slog.Logger
	errs        []string
	totalDirs   int
	visitedDirs int
	found       int
}

func (w *walker) walk(root string) error {
	return catalog.Walk(w.ctx, root, func(e catalog.FileEntry, err error) error {
		if err != nil {
			w.logger.Debug("search skipped entry", "path", e.Path, "error", err)
			w.errs = append(w.errs, e.Path+": "+err.Error())
			return nil
		}

		rel, _ := filepath.Rel(root, e.Path)
		if rel != "." && !w.exclude.Match(rel, e.IsDir, e.Size) {
			if e.IsDir {
				return fs.SkipDir
			}
			return nil
		}

		if e.IsDir {
			w.visitedDirs++
			w.rep.Text("Searching " + e.Path)
			if w.totalDirs > 0 {
				w.rep.Percent(w.visitedDirs * 100 / w.totalDirs)
			}
			return nil
		}

		if !w.m.match(e) {
			return nil
		}
		w.found++
		w.rep.Result(Result{
			Path:      e.Path,
			ParentDir: filepath.Dir(e.Path),
			Size:      e.Size,
			ModTime:   e.ModTime,
		})
		return nil
	})
}

// dedupRoots makes roots absolute and drops duplicates and roots nested in
// another root, so every path is visited at most once. Roots that are not
// directories are reported.
func dedupRoots(roots []string) ([]string, []string) {
	var (
		valid []string
		errs  []string
	)
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			errs = append(errs, r+": "+err.Error())
			continue
		}
		e, err := catalog.Stat(abs)
		switch {
		case err != nil:
			errs = append(errs, r+": "+err.Error())
			continue
		case !e.IsDir:
			errs = append(errs, r+": not a directory")
			continue
		}
		valid = append(valid, abs)
	}

	sort.Strings(valid)
	var out []string
	for _, r := range valid {
		nested := false
		for _, kept := range out {
			if catalog.Within(kept, r) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, r)
		}
	}
	return out, errs
}

var errCapReached = errors.New("pre-count cap reached")

// countDirs counts directories under roots, stopping at limit. The count
// only scales progress, so the cap keeps huge trees from delaying the first
// result.
func countDirs(ctx context.Context, roots []string, exclude *filter.Chain, limit int) (int, error) {
	n := 0
	for _, root := range roots {
		err := catalog.Walk(ctx, root, func(e catalog.FileEntry, err error) error {
			if err != nil || !e.IsDir {
				return nil
			}
			if rel, _ := filepath.Rel(root, e.Path); rel != "." && !exclude.Match(rel, true, 0) {
				return fs.SkipDir
			}
			n++
			if n >= limit {
				return errCapReached
			}
			return nil
		})
		switch {
		case errors.Is(err, errCapReached):
			return n, nil
		case err != nil:
			return n, err
		}
	}
	return n, nil
}

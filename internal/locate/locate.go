package locate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"missionctl/internal/fileutil"
	"missionctl/internal/sentinel"
)

// ErrNotFound is returned by Find when no candidate root contains the
// entry-point file. Callers treat this as "run without a supervised server",
// not as a fatal condition.
const ErrNotFound = sentinel.Error("server entry point not found in any candidate root")

// ErrNoRoots is returned by New when the candidate root list is empty.
const ErrNoRoots = sentinel.Error("at least one candidate root is required")

// DefaultEntryPoint is the entry-point file checked below each candidate
// root, relative to the root.
var DefaultEntryPoint = filepath.Join("src", "server.js")

// DefaultDependencyDir is the directory whose presence marks a candidate
// root as containing an installed dependency tree.
const DefaultDependencyDir = "node_modules"

// Location describes a located server: the candidate root that matched, the
// absolute entry-point path, and the working directory to run it from.
type Location struct {
	Root       string
	EntryPoint string
	WorkDir    string
}

// Config configures a Locator.
type Config struct {
	// Roots are the candidate directories, checked in order. Required.
	Roots []string

	// EntryPoint is the entry-point path relative to each root.
	// Defaults to DefaultEntryPoint.
	EntryPoint string

	// DependencyDir is the directory name that, when present directly under
	// the matched root, makes the root itself the working directory.
	// Defaults to DefaultDependencyDir.
	DependencyDir string

	// Logger is used for locate decisions. Defaults to slog.Default().
	Logger *slog.Logger
}

// Locator checks candidate roots for the server entry point.
type Locator struct {
	roots    []string
	entryRel string
	depDir   string
	log      *slog.Logger
}

// New creates a Locator from cfg, applying defaults for unset fields.
func New(cfg Config) (*Locator, error) {
	if len(cfg.Roots) == 0 {
		return nil, ErrNoRoots
	}
	if cfg.EntryPoint == "" {
		cfg.EntryPoint = DefaultEntryPoint
	}
	if cfg.DependencyDir == "" {
		cfg.DependencyDir = DefaultDependencyDir
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Locator{
		roots:    cfg.Roots,
		entryRel: cfg.EntryPoint,
		depDir:   cfg.DependencyDir,
		log:      cfg.Logger,
	}, nil
}

// Find returns the first candidate root containing the entry-point file,
// with the working directory already derived. Later candidates are not
// checked once one matches. Returns ErrNotFound when no root matches.
func (l *Locator) Find() (*Location, error) {
	for _, root := range l.roots {
		entry := filepath.Join(root, l.entryRel)
		if !fileutil.FileExists(entry) {
			l.log.Debug("candidate root skipped", "root", root)
			continue
		}
		loc := &Location{
			Root:       root,
			EntryPoint: entry,
			WorkDir:    l.workDirFor(root, entry),
		}
		l.log.Info("server entry point located",
			"root", loc.Root, "entry_point", loc.EntryPoint, "workdir", loc.WorkDir)
		return loc, nil
	}
	return nil, fmt.Errorf("checked %d candidate roots: %w", len(l.roots), ErrNotFound)
}

// workDirFor applies the working-directory rule: the root itself when it
// holds an installed dependency tree, otherwise the entry point's
// grandparent directory.
func (l *Locator) workDirFor(root, entry string) string {
	if fileutil.DirExists(filepath.Join(root, l.depDir)) {
		return root
	}
	return filepath.Dir(filepath.Dir(entry))
}

// DefaultRoots returns the candidate roots in priority order: the working
// directory, the resources directory next to the executable, the
// executable's directory, then the working directory's parent and
// grandparent. Roots that depend on a failing os.Executable lookup are
// omitted rather than failing the launch.
func DefaultRoots() ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determine working directory: %w", err)
	}

	roots := []string{cwd}
	if exe, exeErr := os.Executable(); exeErr == nil {
		exeDir := filepath.Dir(exe)
		roots = append(roots, filepath.Join(exeDir, "resources"), exeDir)
	}
	roots = append(roots, filepath.Dir(cwd), filepath.Dir(filepath.Dir(cwd)))
	return roots, nil
}

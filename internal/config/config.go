// Package config loads .bracefmt.toml files and turns them into the
// settings used by the driver and the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"bracefmt/internal/indent"
)

// FileName is the name searched for upwards from the working directory.
const FileName = ".bracefmt.toml"

// Settings is the effective configuration after defaults, the config file and
// command-line overrides have been applied.
type Settings struct {
	Path         string // config file in effect, empty when defaults are used
	Format       indent.Config
	FinalNewline bool
	Extensions   []string
	Exclude      []string
	Jobs         int
	Cache        bool
}

// DefaultExtensions lists the C-family extensions formatted when walking directories.
func DefaultExtensions() []string {
	return []string{".js", ".ts", ".as", ".java", ".c", ".h", ".cpp", ".cs", ".css", ".json"}
}

// DefaultExclude lists directories skipped when walking.
func DefaultExclude() []string {
	return []string{"**/node_modules/**", "**/vendor/**", "**/.git/**"}
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Format:       indent.DefaultConfig(),
		FinalNewline: true,
		Extensions:   DefaultExtensions(),
		Exclude:      DefaultExclude(),
	}
}

type fileConfig struct {
	Format formatSection `toml:"format"`
	Files  filesSection  `toml:"files"`
	Run    runSection    `toml:"run"`
}

type formatSection struct {
	IndentWidth   int        `toml:"indent_width"`
	Indent        string     `toml:"indent"`
	UseTabs       bool       `toml:"use_tabs"`
	LineComment   string     `toml:"line_comment"`
	BlockComment  []string   `toml:"block_comment"`
	BlockContinue string     `toml:"block_continue"`
	Ignore        string     `toml:"ignore"`
	Quote         string     `toml:"quote"`
	FinalNewline  bool       `toml:"final_newline"`
	Pairs         [][]string `toml:"pairs"`
}

type filesSection struct {
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"`
}

type runSection struct {
	Jobs  int  `toml:"jobs"`
	Cache bool `toml:"cache"`
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds the nearest config file above startDir and loads it.
// Defaults are returned when none exists.
func Discover(startDir string) (Settings, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Settings{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads path and overlays the keys it defines on top of the defaults.
func Load(path string) (Settings, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	s, err := apply(path, fc, meta)
	if err != nil {
		return Settings{}, err
	}
	s.Path = path
	return s, nil
}

// Parse decodes TOML text the same way Load does; name is used in messages.
func Parse(name, data string) (Settings, error) {
	var fc fileConfig
	meta, err := toml.Decode(data, &fc)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	return apply(name, fc, meta)
}

func apply(name string, fc fileConfig, meta toml.MetaData) (Settings, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Settings{}, fmt.Errorf("%s: unknown keys: %s", name, strings.Join(keys, ", "))
	}
	s, err := overlay(Default(), fc, meta)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

func overlay(s Settings, fc fileConfig, meta toml.MetaData) (Settings, error) {
	f := &s.Format
	format := fc.Format
	if meta.IsDefined("format", "indent") {
		f.Unit = format.Indent
	}
	if meta.IsDefined("format", "indent_width") {
		if format.IndentWidth <= 0 {
			return s, fmt.Errorf("[format].indent_width must be positive, got %d", format.IndentWidth)
		}
		f.Unit = indent.UnitOf(format.IndentWidth, false)
	}
	if meta.IsDefined("format", "use_tabs") && format.UseTabs {
		f.Unit = indent.UnitOf(0, true)
	}
	if meta.IsDefined("format", "line_comment") {
		f.LineComment = format.LineComment
	}
	if meta.IsDefined("format", "block_comment") {
		switch len(format.BlockComment) {
		case 0:
			f.BlockOpen, f.BlockClose = "", ""
		case 2:
			f.BlockOpen, f.BlockClose = format.BlockComment[0], format.BlockComment[1]
		default:
			return s, fmt.Errorf("[format].block_comment must be [] or [open, close], got %d items", len(format.BlockComment))
		}
	}
	if meta.IsDefined("format", "block_continue") {
		f.BlockContinue = format.BlockContinue
	}
	if meta.IsDefined("format", "ignore") {
		f.Ignore = format.Ignore
	}
	if meta.IsDefined("format", "quote") {
		f.Quote = format.Quote
	}
	if meta.IsDefined("format", "final_newline") {
		s.FinalNewline = format.FinalNewline
	}
	if meta.IsDefined("format", "pairs") {
		pairs := make([]indent.Pair, 0, len(format.Pairs))
		for i, p := range format.Pairs {
			if len(p) != 2 {
				return s, fmt.Errorf("[format].pairs[%d] must be [open, close]", i)
			}
			pairs = append(pairs, indent.Pair{Open: p[0], Close: p[1]})
		}
		f.Pairs = pairs
	}
	if err := f.Validate(); err != nil {
		return s, fmt.Errorf("[format]: %w", err)
	}

	if meta.IsDefined("files", "extensions") {
		exts := make([]string, 0, len(fc.Files.Extensions))
		for _, ext := range fc.Files.Extensions {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			exts = append(exts, ext)
		}
		s.Extensions = exts
	}
	if meta.IsDefined("files", "exclude") {
		s.Exclude = append([]string(nil), fc.Files.Exclude...)
	}

	if meta.IsDefined("run", "jobs") {
		if fc.Run.Jobs < 0 {
			return s, fmt.Errorf("[run].jobs must not be negative, got %d", fc.Run.Jobs)
		}
		s.Jobs = fc.Run.Jobs
	}
	if meta.IsDefined("run", "cache") {
		s.Cache = fc.Run.Cache
	}
	return s, nil
}

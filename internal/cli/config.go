package cli

import (
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/errors"
)

// fileConfig is the layout of .dirgraph.toml. Every key is optional;
// command-line flags that are set explicitly win over the file.
//
//	direction = "LR"
//	include = ["src"]
//	exclude = ["test"]
//	links = true
//	root_dir = "/home/me/project"
//
//	[server]
//	addr = ":8080"
type fileConfig struct {
	Direction      string   `toml:"direction"`
	DirStyle       bool     `toml:"dir_style"`
	HighlightStyle bool     `toml:"highlight_style"`
	Links          bool     `toml:"links"`
	RootDir        string   `toml:"root_dir"`
	Markdown       bool     `toml:"markdown"`
	Include        []string `toml:"include"`
	Exclude        []string `toml:"exclude"`
	Abstract       []string `toml:"abstract"`
	Highlight      []string `toml:"highlight"`
	IgnoreFile     string   `toml:"ignore_file"`
	Formats        []string `toml:"formats"`

	Server serverConfig `toml:"server"`
}

type serverConfig struct {
	Addr     string `toml:"addr"`
	RedisURL string `toml:"redis_url"`
}

// loadConfig reads the config file at path. With an empty path it looks for
// configFileName in the working directory and returns an empty config when
// there is none; an explicit path must exist.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	explicit := path != ""
	if !explicit {
		path = configFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case !explicit && stderrors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case stderrors.Is(err, fs.ErrNotExist):
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	default:
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// applyConfig copies config values into the transform flags that were not
// set on the command line.
func applyConfig(cmd *cobra.Command, cfg fileConfig, f *transformFlags) {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl == nil || fl.Changed
	}

	if !changed("include") && len(cfg.Include) > 0 {
		f.include = cfg.Include
	}
	if !changed("exclude") && len(cfg.Exclude) > 0 {
		f.exclude = cfg.Exclude
	}
	if !changed("abstract") && len(cfg.Abstract) > 0 {
		f.abstract = cfg.Abstract
	}
	if !changed("highlight") && len(cfg.Highlight) > 0 {
		f.highlight = cfg.Highlight
	}
	if !changed("ignore-file") && cfg.IgnoreFile != "" {
		f.ignoreFile = cfg.IgnoreFile
	}
}

// applyRenderConfig copies config values into the render flags that were
// not set on the command line.
func applyRenderConfig(cmd *cobra.Command, cfg fileConfig, f *renderFlags) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	if !changed("LR") && !changed("TB") && cfg.Direction != "" {
		f.direction = cfg.Direction
	}
	if !changed("dir") && cfg.DirStyle {
		f.dirStyle = true
	}
	if !changed("highlight-style") && cfg.HighlightStyle {
		f.highlightStyle = true
	}
	if !changed("links") && cfg.Links {
		f.links = true
	}
	if !changed("root-dir") && cfg.RootDir != "" {
		f.rootDir = cfg.RootDir
	}
	if !changed("markdown") && cfg.Markdown {
		f.markdown = true
	}
	if !changed("format") && len(cfg.Formats) > 0 {
		f.formats = cfg.Formats
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pelletier/go-toml"

	"github.com/0Bleak/crun/common"
)

// tomlConfigFile represents a crun defaults file as it is encoded in TOML
type tomlConfigFile struct {
	Defaults  *tomlDefaults  `toml:"defaults"`
	Toolchain *tomlToolchain `toml:"toolchain"`
}

// tomlDefaults holds the defaults for the configuration record
type tomlDefaults struct {
	Optimization string `toml:"optimization,omitempty"`
	OutputDir    string `toml:"outdir,omitempty"`
	Keep         bool   `toml:"keep"`
	Verbose      bool   `toml:"verbose"`
	Lint         bool   `toml:"lint"`
	Static       bool   `toml:"static"`
}

// tomlToolchain holds compiler overrides
type tomlToolchain struct {
	ExtraFlags string   `toml:"extra-flags,omitempty"`
	C          []string `toml:"c,omitempty"`
	CPP        []string `toml:"cpp,omitempty"`
}

// FindFile locates the defaults file for a working directory.  The search
// order is $CRUN_CONFIG, `<workDir>/.crun.toml` and then the user config
// directory.  An explicit $CRUN_CONFIG that does not exist is an error.
func FindFile(workDir string) (string, bool, error) {
	if path, ok := os.LookupEnv(common.ConfigEnvVar); ok && path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", false, fmt.Errorf("error loading %s: %w", common.ConfigEnvVar, err)
		}

		return path, true, nil
	}

	candidates := []string{filepath.Join(workDir, common.ConfigFileName)}
	if userDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(userDir, "crun", "config.toml"))
	}

	for _, path := range candidates {
		if finfo, err := os.Stat(path); err == nil && !finfo.IsDir() {
			return path, true, nil
		}
	}

	return "", false, nil
}

// Load builds the default configuration for a working directory: the
// built-in defaults, overlaid with the defaults file if one is found and with
// the flags in $CRUN_CFLAGS.
func Load(workDir string) (Config, error) {
	cfg := Default()

	path, ok, err := FindFile(workDir)
	if err != nil {
		return cfg, err
	}

	if ok {
		if cfg, err = LoadFile(path); err != nil {
			return cfg, err
		}
	}

	if envFlags := os.Getenv(common.FlagsEnvVar); envFlags != "" {
		flags, err := splitFlags(common.FlagsEnvVar, envFlags)
		if err != nil {
			return cfg, err
		}

		cfg.ExtraFlags = append(cfg.ExtraFlags, flags...)
	}

	return cfg, nil
}

// LoadFile loads and validates a defaults file on top of the built-in
// defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	buff, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buff, tcf); err != nil {
		return cfg, fmt.Errorf("error decoding %s: %w", path, err)
	}

	if err := applyDefaults(&cfg, tcf.Defaults); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	if err := applyToolchain(&cfg, tcf.Toolchain); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// applyDefaults moves the `[defaults]` table onto the configuration
func applyDefaults(cfg *Config, td *tomlDefaults) error {
	if td == nil {
		return nil
	}

	if td.Optimization != "" {
		level, ok := ParseOptLevel(td.Optimization)
		if !ok {
			return fmt.Errorf("invalid optimization level `%s`: must be one of -O0, -O1, -O2, -O3", td.Optimization)
		}

		cfg.OptLevel = level
	}

	if td.OutputDir != "" {
		cfg.OutputDir = td.OutputDir
	}

	cfg.Keep = td.Keep
	cfg.Verbose = td.Verbose
	cfg.Lint = td.Lint
	cfg.StaticLink = td.Static
	return nil
}

// applyToolchain moves the `[toolchain]` table onto the configuration
func applyToolchain(cfg *Config, tt *tomlToolchain) error {
	if tt == nil {
		return nil
	}

	if tt.ExtraFlags != "" {
		flags, err := splitFlags("extra-flags", tt.ExtraFlags)
		if err != nil {
			return err
		}

		cfg.ExtraFlags = flags
	}

	for _, entry := range []struct {
		ext   string
		names []string
	}{{"c", tt.C}, {"cpp", tt.CPP}} {
		ext, names := entry.ext, entry.names
		if names == nil {
			continue
		}

		if len(names) != 2 || names[0] == "" || names[1] == "" {
			return fmt.Errorf("toolchain `%s` must name exactly a primary and a fallback compiler", ext)
		}

		if cfg.Toolchains == nil {
			cfg.Toolchains = make(map[string]ToolchainPair)
		}

		cfg.Toolchains[ext] = ToolchainPair{Primary: names[0], Fallback: names[1]}
	}

	return nil
}

// splitFlags splits a shell-quoted list of extra compiler flags.  The
// optimization level is only ever set through the configuration record, so
// `-O` flags are rejected here.
func splitFlags(source, value string) ([]string, error) {
	flags, err := shellquote.Split(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", source, err)
	}

	for _, flag := range flags {
		if strings.HasPrefix(flag, "-O") {
			return nil, fmt.Errorf("invalid %s: `%s` sets the optimization level (use -O0..-O3 or `optimization` instead)", source, flag)
		}
	}

	return flags, nil
}

// WriteDefaultFile writes a defaults file holding the built-in defaults to
// path.  An existing file is only replaced if force is set.
func WriteDefaultFile(path string, force bool) error {
	_, err := os.Stat(path)
	if err == nil && !force {
		return errors.New("configuration file already exists")
	}

	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("configuration file error: %w", err)
	}

	def := Default()
	tcf := &tomlConfigFile{
		Defaults: &tomlDefaults{
			Optimization: def.OptLevel.Flag(),
			OutputDir:    def.OutputDir,
		},
		Toolchain: &tomlToolchain{
			C:   []string{"gcc", "clang"},
			CPP: []string{"g++", "clang++"},
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating configuration file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(tcf); err != nil {
		return fmt.Errorf("error encoding TOML: %w", err)
	}

	return nil
}

// Package toolchain derives everything crun needs to invoke a compiler: the
// language and compiler for a source file, the build target, and the flags.
package toolchain

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/0Bleak/crun/config"
	"github.com/0Bleak/crun/proc"
)

// Language is a source language crun can compile.
type Language int

// Enumeration of supported languages
const (
	LangC Language = iota
	LangCXX
)

func (l Language) String() string {
	if l == LangCXX {
		return "C++"
	}

	return "C"
}

// defaultPairs maps source extensions to their toolchain pair
var defaultPairs = map[string]config.ToolchainPair{
	"c":   {Primary: "gcc", Fallback: "clang"},
	"cpp": {Primary: "g++", Fallback: "clang++"},
}

var extLanguages = map[string]Language{
	"c":   LangC,
	"cpp": LangCXX,
}

// UnsupportedExtensionError is returned for source files that are neither C
// nor C++.
type UnsupportedExtensionError struct {
	Extension string
}

func (ue *UnsupportedExtensionError) Error() string {
	if ue.Extension == "" {
		return "unsupported file extension: source file has no extension"
	}

	return fmt.Sprintf("unsupported file extension: .%s", ue.Extension)
}

// NoCompilerError is returned when neither compiler of a pair is installed.
type NoCompilerError struct {
	Pair config.ToolchainPair
}

func (ne *NoCompilerError) Error() string {
	return fmt.Sprintf("no compiler found (tried %s and %s): run crun --install to resolve dependencies",
		ne.Pair.Primary, ne.Pair.Fallback)
}

// Selection is the result of compiler selection for a source file.
type Selection struct {
	Language Language

	// Compiler is the name of the chosen compiler binary.
	Compiler string

	// Pair is the toolchain pair the compiler was chosen from.
	Pair config.ToolchainPair
}

// Extension returns the extension of a source file without its leading dot.
func Extension(sourceFile string) string {
	return strings.TrimPrefix(filepath.Ext(sourceFile), ".")
}

// PairFor returns the toolchain pair for a source extension, honoring any
// override in the configuration.
func PairFor(ext string, cfg config.Config) (config.ToolchainPair, Language, error) {
	lang, ok := extLanguages[ext]
	if !ok {
		return config.ToolchainPair{}, 0, &UnsupportedExtensionError{Extension: ext}
	}

	if pair, ok := cfg.Toolchain(ext); ok {
		return pair, lang, nil
	}

	return defaultPairs[ext], lang, nil
}

// Select chooses the compiler for a source file.  The primary compiler of the
// pair is preferred; the fallback is only used if the primary is absent.
func Select(host proc.Host, sourceFile string, cfg config.Config) (*Selection, error) {
	pair, lang, err := PairFor(Extension(sourceFile), cfg)
	if err != nil {
		return nil, err
	}

	for _, name := range []string{pair.Primary, pair.Fallback} {
		if proc.Present(host, name) {
			return &Selection{Language: lang, Compiler: name, Pair: pair}, nil
		}
	}

	return nil, &NoCompilerError{Pair: pair}
}

package toolchain

import (
	"path/filepath"
	"strings"
)

// Target is the build target derived from a source file.  It is never
// persisted: every invocation derives it again.
type Target struct {
	// BaseName is the source file name with its directory and extension
	// stripped.
	BaseName string

	Extension string

	// OutputPath is where the compiled binary is written.
	OutputPath string
}

// NewTarget derives the build target for a source file and output directory.
func NewTarget(sourceFile, outputDir string) *Target {
	base := filepath.Base(sourceFile)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	// a bare name would be looked up on the search path when it is run
	output := filepath.Join(outputDir, name)
	if !strings.ContainsRune(output, filepath.Separator) {
		output = "." + string(filepath.Separator) + output
	}

	return &Target{
		BaseName:   name,
		Extension:  strings.TrimPrefix(ext, "."),
		OutputPath: output,
	}
}

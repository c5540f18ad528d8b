// include.go implements the textual `#include <path>` preprocessor: every
// compilation unit implicitly includes the standard prelude first, and
// explicit includes with a relative path are resolved against the include
// directory, deduplicated by absolute path so a cycle or diamond include
// is expanded at most once.
package util

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StdPrelude is the path, relative to an include search root, of the
// implicit prelude every source file is preprocessed with first.
const StdPrelude = "std.ifx"

// ResolveIncludes reads the file at path, recursively expanding any line
// of the form `#include <relative-path>`, and prepends the standard
// prelude (unless path already is the prelude, to avoid self-inclusion).
// includeDir is the root searched for both the prelude and every
// `#include` target.
func ResolveIncludes(path, includeDir string) (string, error) {
	seen := make(map[string]bool)

	var body strings.Builder
	if filepath.Base(path) != StdPrelude {
		preludePath := filepath.Join(includeDir, StdPrelude)
		if _, err := os.Stat(preludePath); err == nil {
			if err := expandInto(&body, preludePath, includeDir, seen); err != nil {
				return "", err
			}
		}
	}

	if err := expandInto(&body, path, includeDir, seen); err != nil {
		return "", err
	}
	return body.String(), nil
}

func expandInto(out *strings.Builder, path, includeDir string, seen map[string]bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if seen[abs] {
		return nil
	}
	seen[abs] = true

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		target, ok := parseIncludeLine(line)
		if !ok {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		incPath := target
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(includeDir, target)
		}
		if err := expandInto(out, incPath, includeDir, seen); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// parseIncludeLine reports whether line is a `#include <path>` directive
// and, if so, returns the quoted or bracketed path it names.
func parseIncludeLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	const prefix = "#include"
	if !strings.HasPrefix(trimmed, prefix) {
		return "", false
	}
	rest := strings.TrimSpace(trimmed[len(prefix):])
	if len(rest) < 2 {
		return "", false
	}
	open, close := rest[0], rest[len(rest)-1]
	if (open == '<' && close == '>') || (open == '"' && close == '"') {
		return rest[1 : len(rest)-1], true
	}
	return "", false
}

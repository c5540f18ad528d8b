package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveIncludesPrependsStdPrelude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "std.ifx", "malloc extern (ptr, i64);\n")
	main := writeFile(t, dir, "main.ifx", "x is i32;\n")

	out, err := ResolveIncludes(main, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "malloc extern")
	assert.Contains(t, out, "x is i32")
}

func TestResolveIncludesExpandsExplicitInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helpers.ifx", "y is i32;\n")
	main := writeFile(t, dir, "main.ifx", "#include \"helpers.ifx\"\nx is i32;\n")

	out, err := ResolveIncludes(main, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "y is i32")
	assert.Contains(t, out, "x is i32")
}

func TestResolveIncludesDedupesCycles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ifx", "#include \"b.ifx\"\nfrom_a is i32;\n")
	writeFile(t, dir, "b.ifx", "#include \"a.ifx\"\nfrom_b is i32;\n")
	main := writeFile(t, dir, "main.ifx", "#include \"a.ifx\"\n")

	out, err := ResolveIncludes(main, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(out, "from_a"))
	assert.Equal(t, 1, countOccurrences(out, "from_b"))
}

func TestResolveIncludesSkipsSelfPreludeInclusion(t *testing.T) {
	dir := t.TempDir()
	prelude := writeFile(t, dir, "std.ifx", "malloc extern (ptr, i64);\n")

	out, err := ResolveIncludes(prelude, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(out, "malloc extern"))
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}

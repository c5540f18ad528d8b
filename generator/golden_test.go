package generator

import (
	"testing"

	"github.com/Rafagd/infix-lang/frontend"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// TestGenerateGoldenIR snapshots the full textual IR of a small program
// covering declare/assign/arithmetic/print, catching accidental emission
// format drift in the textual writer.
func TestGenerateGoldenIR(t *testing.T) {
	src := `
		x is i32;
		x = 1 + 2;
		() println (x);
	`
	root, err := frontend.Parse(src)
	require.NoError(t, err)
	g := New("golden.ifx")
	out, err := g.Generate(root)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, out)
}

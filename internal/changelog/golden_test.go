package changelog

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

// TestGolden renders every testdata/*.md input and compares it to its
// .golden.md file. Inputs without a golden file are canonical and must
// render back to themselves.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/*.md")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		if strings.HasSuffix(file, ".golden.md") {
			continue
		}
		t.Run(filepath.Base(file), func(t *testing.T) {
			c, err := Load(file)
			require.NoError(t, err)
			actual := c.Render()

			goldenFile := strings.TrimSuffix(file, ".md") + ".golden.md"
			if _, err := os.Stat(goldenFile); err != nil {
				goldenFile = file
			} else if *update {
				require.NoError(t, os.WriteFile(goldenFile, []byte(actual), 0o644))
			}

			expected, err := os.ReadFile(goldenFile)
			require.NoError(t, err)
			require.Equal(t, string(expected), actual, "rendered output does not match %s", goldenFile)

			// Rendering is a fixed point after one parse.
			require.Equal(t, actual, ParseString(actual).Render())
		})
	}
}

package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleRows()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Churn Rate (%)")
	assert.Contains(t, lines[1], "2023-01")
	assert.Contains(t, lines[3], "33.33")
	for _, l := range lines[1:] {
		assert.Equal(t, len(lines[0]), len(l), "columns are aligned")
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitfuzz/internal/suite"
)

func TestChecksCommand_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewChecksCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(suite.All()))
	assert.Equal(t, "rankSelect", lines[0])
}

func TestChecksCommand_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewChecksCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)

	require.NoError(t, cmd.Execute())

	var names []string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &names))
	assert.Len(t, names, len(suite.All()))
	assert.Contains(t, names, "orCardinality")
}

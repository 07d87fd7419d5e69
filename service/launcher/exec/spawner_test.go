package exec

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawner_Spawn(t *testing.T) {
	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	defer reader.Close()

	child, err := New().Spawn(context.Background(), "uname", writer)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	assert.Greater(t, child.PID(), 0)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.NoError(t, child.Wait())
	assert.NotEmpty(t, strings.TrimSpace(string(data)))
}

func TestSpawner_NotFound(t *testing.T) {
	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	defer reader.Close()
	defer writer.Close()

	child, err := New().Spawn(context.Background(), "no-such-program-for-scheduler", writer)
	assert.Error(t, err)
	assert.Nil(t, child)
}

package helper

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUID(t *testing.T) {
	a, err := GenerateUUID()
	require.NoError(t, err)
	b, err := GenerateUUID()
	require.NoError(t, err)

	_, err = uuid.Parse(a)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, WriteJSON(path, map[string]int{"chunks": 3}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 3, got["chunks"])
}

func TestPrettyPrint(t *testing.T) {
	var buf bytes.Buffer
	PrettyPrint(&buf, struct {
		Question string `json:"question"`
	}{Question: "why"})
	assert.Contains(t, buf.String(), `"question": "why"`)
}

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	SetupLogger(&bytes.Buffer{}, "debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetupLogger(&bytes.Buffer{}, "nonsense")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

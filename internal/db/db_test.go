package db

import (
	"context"
	"testing"

	"esg-rag/internal/config"
	"esg-rag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterJSON(t *testing.T) {
	assert.Equal(t, "", FilterJSON(nil))
	assert.Equal(t, "", FilterJSON(map[string]string{}))
	assert.Equal(t,
		`{"company_name":"Shell","report_year":"2022"}`,
		FilterJSON(map[string]string{"report_year": "2022", "company_name": "Shell"}),
	)
}

func TestConnectDB(t *testing.T) {
	t.Run("Requires dsn", func(t *testing.T) {
		_, err := ConnectDB(&config.DatabaseConfig{})
		require.Error(t, err)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		_, err := ConnectDB(&config.DatabaseConfig{DSN: "postgres://localhost/esg", Driver: "mysql"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown driver "mysql"`)
	})

	for _, driver := range []string{"pgdriver", "pq"} {
		t.Run("Opens lazily with "+driver, func(t *testing.T) {
			sqldb, err := ConnectDB(&config.DatabaseConfig{DSN: "postgres://postgres@localhost:5432/esg?sslmode=disable", Driver: driver})
			require.NoError(t, err)
			require.NoError(t, sqldb.Close())
		})
	}
}

func TestSearchValidation(t *testing.T) {
	s := NewStore(nil, nil, 3)

	_, err := s.Search(context.Background(), "", 5, nil)
	require.Error(t, err)

	results, err := s.Search(context.Background(), "q", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAddChunksDimensionMismatch(t *testing.T) {
	embed := func(ctx context.Context, text string) ([]float32, error) {
		return []float32{0.1, 0.2}, nil
	}
	s := NewStore(nil, embed, 3)

	require.NoError(t, s.AddChunks(context.Background(), nil))

	err := s.AddChunks(context.Background(), []models.Chunk{{ID: "a", Content: "scope 1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 dimensions, want 3")
}

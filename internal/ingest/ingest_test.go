package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esg-rag/internal/config"
	"esg-rag/internal/extract"
	"esg-rag/internal/models"
)

type fakeIndexer struct {
	chunks []models.Chunk
	err    error
}

func (f *fakeIndexer) AddChunks(ctx context.Context, chunks []models.Chunk) error {
	if f.err != nil {
		return f.err
	}
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func writeReport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestProcessor(t *testing.T, indexer Indexer) (*Processor, string) {
	t.Helper()
	cfg := config.Default()
	cfg.RAG.OutputDir = filepath.Join(t.TempDir(), "output")
	cfg.RAG.ChunkSize = 200
	cfg.RAG.ChunkOverlap = 20
	p := NewProcessor(indexer, extract.New(extract.DefaultVocabulary()), cfg)
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return p, cfg.RAG.OutputDir
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	report := writeReport(t, dir, "dangote_cement_2022.txt",
		"Dangote Cement Plc sustainability report.\fScope 1 direct emissions were 1,000 tonnes CO2e as at 31 December 2022.")
	broken := writeReport(t, dir, "notes.csv", "a,b,c")
	missing := filepath.Join(dir, "missing.txt")

	indexer := &fakeIndexer{}
	p, out := newTestProcessor(t, indexer)

	chunks, err := p.Run(ctx, []string{report, broken, missing})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, chunks, indexer.chunks)

	first, second := chunks[0].Metadata, chunks[1].Metadata
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 2, second.Page)
	for _, m := range []models.ChunkMetadata{first, second} {
		assert.Equal(t, "dangote_cement_2022.txt", m.Source)
		assert.Equal(t, "Dangote Cement", m.CompanyName)
		assert.Equal(t, "2022", m.ReportYear)
		assert.Equal(t, 0, m.ChunkIndex)
		assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), m.ProcessedAt)
	}
	assert.Contains(t, first.Organizations, "Dangote Cement Plc")
	assert.Contains(t, second.Tags, extract.TagScope1)
	assert.Contains(t, second.Dates, "31 December 2022")
	assert.Equal(t, 13, second.WordCount)
	assert.NotEqual(t, chunks[0].ID, chunks[1].ID)

	for _, name := range []string{"dangote_cement_2022_chunks.json", "dangote_cement_2022_tables.json", allChunksFile} {
		assert.FileExists(t, filepath.Join(out, name))
	}

	data, err := os.ReadFile(filepath.Join(out, allChunksFile))
	require.NoError(t, err)
	var saved []models.Chunk
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Len(t, saved, 2)
}

func TestRunIndexError(t *testing.T) {
	dir := t.TempDir()
	report := writeReport(t, dir, "shell_2023.txt", "Shell scope 2 emissions")

	p, _ := newTestProcessor(t, &fakeIndexer{err: errors.New("store offline")})
	_, err := p.Run(context.Background(), []string{report})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store offline")
}

func TestRunNoFiles(t *testing.T) {
	p, out := newTestProcessor(t, &fakeIndexer{})
	chunks, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.FileExists(t, filepath.Join(out, allChunksFile))
}

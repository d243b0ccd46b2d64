package chromemdb

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"esg-rag/internal/models"
)

// VectorDBManager encapsulates the chromem-go database operations
type VectorDBManager struct {
	db            *chromem.DB
	collection    *chromem.Collection
	dbPath        string
	compress      bool
	encryptionKey string
	filePath      string
	embed         chromem.EmbeddingFunc
}

const (
	compress = false
)

// NewVectorDBManager opens (or creates) the database and the collection.
// Documents added to the collection are embedded with embed.
func NewVectorDBManager(dbPath, collectionName string, inMemory bool, encryptionKey string, embed chromem.EmbeddingFunc) (*VectorDBManager, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, eris.Wrap(err, "chromemdb: failed to create database")
		}
	}

	m := &VectorDBManager{
		db:            db,
		dbPath:        dbPath,
		compress:      compress,
		encryptionKey: encryptionKey,
		filePath:      filepath.Join(dbPath, collectionName+".gob.enc"),
		embed:         embed,
	}
	if _, err := m.GetOrCreateCollection(collectionName, embed); err != nil {
		return nil, err
	}
	return m, nil
}

// create or read collection
func (m *VectorDBManager) GetOrCreateCollection(collectionName string, embed chromem.EmbeddingFunc) (*chromem.Collection, error) {
	c, err := m.db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, eris.Wrap(err, "chromemdb: failed to create/get collection")
	}
	m.collection = c
	return c, nil
}

// AddChunks embeds and stores the chunks
func (m *VectorDBManager) AddChunks(ctx context.Context, chunks []models.Chunk) error {
	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, chromem.Document{
			ID:       chunk.ID,
			Content:  chunk.Content,
			Metadata: chunk.Metadata.ToMap(),
		})
	}
	if len(docs) == 0 {
		return nil
	}
	if err := m.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return eris.Wrap(err, "chromemdb: failed to add documents")
	}
	return nil
}

// Count returns the number of stored chunks
func (m *VectorDBManager) Count(ctx context.Context) (int, error) {
	return m.collection.Count(), nil
}

// Search returns up to k chunks most similar to query whose metadata
// equals every key/value of where.
func (m *VectorDBManager) Search(ctx context.Context, query string, k int, where map[string]string) ([]models.SearchResult, error) {
	if query == "" {
		return nil, eris.New("chromemdb: query must be provided")
	}

	// chromem rejects nResults larger than the collection
	k = min(k, m.collection.Count())
	if k <= 0 {
		return nil, nil
	}

	results, err := m.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryText: query,
		NResults:  k,
		Where:     where,
	})
	if err != nil {
		return nil, eris.Wrap(err, "chromemdb: failed to query by similarity")
	}

	out := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, models.SearchResult{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		})
	}
	return out, nil
}

// delete collection
func (m *VectorDBManager) DeleteCollection() error {
	err := m.db.DeleteCollection(m.collection.Name)
	if err != nil {
		return eris.Wrap(err, "chromemdb: failed to drop collection")
	}
	return nil
}

// export to file
func (m *VectorDBManager) Export(ctx context.Context) error {
	if m.encryptionKey == "" {
		return eris.New("chromemdb: encryption key is required")
	}
	if m.dbPath == "" {
		return eris.New("chromemdb: db path is required")
	}

	log.Debug().Str("collection", m.collection.Name).Str("file", m.filePath).Bool("compress", m.compress).Msg("Exporting collection")
	err := m.db.ExportToFile(m.filePath, m.compress, m.encryptionKey, m.collection.Name)
	if err != nil {
		return eris.Wrap(err, "chromemdb: failed to export database")
	}
	return nil
}

// import from file
func (m *VectorDBManager) Import(ctx context.Context) error {
	name := m.collection.Name
	err := m.db.ImportFromFile(m.filePath, m.encryptionKey, name)
	if err != nil {
		return eris.Wrap(err, "chromemdb: failed to import database")
	}
	if c := m.db.GetCollection(name, m.embed); c != nil {
		m.collection = c
	}
	return nil
}

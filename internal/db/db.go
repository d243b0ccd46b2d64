package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"esg-rag/internal/config"
	"esg-rag/internal/models"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// EmbedFunc maps text to a vector
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

type Document struct {
	bun.BaseModel `bun:"table:report_chunks,alias:rc"`
	ID            string            `bun:"id,pk"`
	Content       string            `bun:"content,notnull"`
	Metadata      map[string]string `bun:"metadata,type:jsonb,notnull"`
	Embedding     pgvector.Vector   `bun:"embedding,type:vector,notnull"`
	Similarity    float64           `bun:"similarity,scanonly"`
}

// Store is a vector index backed by Postgres and pgvector
type Store struct {
	db        *bun.DB
	embed     EmbedFunc
	dimension int
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// ConnectDB opens the connection with pgdriver, or lib/pq when the driver
// is "pq".
func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, eris.New("db: dsn is required")
	}
	switch cfg.Driver {
	case "pq", "postgres":
		sqldb, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, eris.Wrap(err, "db: open postgres")
		}
		return sqldb, nil
	case "pgdriver", "":
		opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
		if cfg.Password != "" {
			opts = append(opts, pgdriver.WithPassword(cfg.Password))
		}
		return sql.OpenDB(pgdriver.NewConnector(opts...)), nil
	default:
		return nil, eris.Errorf("db: unknown driver %q", cfg.Driver)
	}
}

// NewStore wraps an open database
func NewStore(db *bun.DB, embed EmbedFunc, dimension int) *Store {
	return &Store{db: db, embed: embed, dimension: dimension}
}

// InitDB creates the extension, table and index if they do not exist
func (s *Store) InitDB(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return eris.Wrap(err, "db: create vector extension")
	}
	_, err := s.db.NewCreateTable().
		Model((*Document)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return eris.Wrap(err, "db: create table")
	}
	if _, err := s.db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS report_chunks_metadata_idx ON report_chunks USING gin (metadata)"); err != nil {
		return eris.Wrap(err, "db: create metadata index")
	}
	return nil
}

// AddChunks embeds the chunks and upserts them
func (s *Store) AddChunks(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]Document, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := s.embed(ctx, chunk.Content)
		if err != nil {
			return eris.Wrapf(err, "db: embed chunk %s", chunk.ID)
		}
		if s.dimension > 0 && len(vec) != s.dimension {
			return eris.Errorf("db: embedding has %d dimensions, want %d", len(vec), s.dimension)
		}
		docs = append(docs, Document{
			ID:        chunk.ID,
			Content:   chunk.Content,
			Metadata:  chunk.Metadata.ToMap(),
			Embedding: pgvector.NewVector(vec),
		})
	}
	_, err := s.db.NewInsert().
		Model(&docs).
		On("CONFLICT (id) DO UPDATE").
		Set("content = EXCLUDED.content, metadata = EXCLUDED.metadata, embedding = EXCLUDED.embedding").
		Exec(ctx)
	if err != nil {
		return eris.Wrap(err, "db: insert chunks")
	}
	log.Debug().Int("chunks", len(docs)).Msg("Stored chunks")
	return nil
}

// Count returns the number of stored chunks
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*Document)(nil)).Count(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: count chunks")
	}
	return n, nil
}

// Search orders chunks by cosine distance to the query embedding. The
// where map is matched with jsonb containment so every key must be equal.
func (s *Store) Search(ctx context.Context, query string, k int, where map[string]string) ([]models.SearchResult, error) {
	if query == "" {
		return nil, eris.New("db: query must be provided")
	}
	if k <= 0 {
		return nil, nil
	}
	vec, err := s.embed(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "db: embed query")
	}
	queryVec := pgvector.NewVector(vec)

	var docs []Document
	q := s.db.NewSelect().
		Model(&docs).
		Column("id", "content", "metadata").
		ColumnExpr("1 - (embedding <=> ?) AS similarity", queryVec).
		OrderExpr("embedding <=> ?", queryVec).
		Limit(k)
	if filter := FilterJSON(where); filter != "" {
		q = q.Where("metadata @> ?::jsonb", filter)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, eris.Wrap(err, "db: search chunks")
	}

	out := make([]models.SearchResult, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.SearchResult{
			ID:         d.ID,
			Content:    d.Content,
			Metadata:   d.Metadata,
			Similarity: float32(d.Similarity),
		})
	}
	return out, nil
}

// drop table report_chunks
func (s *Store) DropDocuments(ctx context.Context) error {
	_, err := s.db.NewDropTable().Model((*Document)(nil)).IfExists().Exec(ctx)
	if err != nil {
		return eris.Wrap(err, "db: drop table")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// FilterJSON encodes a metadata filter for jsonb containment. An empty
// filter returns "".
func FilterJSON(where map[string]string) string {
	if len(where) == 0 {
		return ""
	}
	b, err := json.Marshal(where)
	if err != nil {
		// a map[string]string always encodes
		return ""
	}
	return strings.TrimSpace(string(b))
}

package main

import (
	"context"

	"github.com/philippgille/chromem-go"
	"github.com/rotisserie/eris"

	"esg-rag/internal/chromemdb"
	"esg-rag/internal/config"
	"esg-rag/internal/db"
	"esg-rag/internal/embedding"
	"esg-rag/internal/ingest"
	"esg-rag/internal/rag"
)

// vectorStore is what the commands need from either backend
type vectorStore interface {
	rag.Index
	ingest.Indexer
}

// openStore opens the configured vector store. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (vectorStore, func(), error) {
	embed, err := embedding.New(&cfg.EmbedLLM)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.RAG.VectorStore {
	case config.VectorStorePostgres:
		sqldb, err := db.ConnectDB(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		bunDB := db.NewDB(sqldb, cfg.Database.Debug)
		store := db.NewStore(bunDB, db.EmbedFunc(embed), cfg.Database.Dimension)
		if err := store.InitDB(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.VectorStoreChromem:
		m, err := openChromem(cfg, embed)
		if err != nil {
			return nil, nil, err
		}
		return m, func() {}, nil
	default:
		return nil, nil, eris.Errorf("unknown vector store %q", cfg.RAG.VectorStore)
	}
}

func openChromem(cfg *config.Config, embed embedding.Func) (*chromemdb.VectorDBManager, error) {
	return chromemdb.NewVectorDBManager(
		cfg.RAG.DBPath,
		cfg.RAG.CollectionName,
		cfg.RAG.InMemory,
		cfg.RAG.EncryptionKey,
		chromem.EmbeddingFunc(embed),
	)
}

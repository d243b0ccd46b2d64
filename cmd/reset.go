package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"esg-rag/internal/config"
	"esg-rag/internal/db"
	"esg-rag/internal/embedding"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every indexed chunk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.RAG.VectorStore == config.VectorStorePostgres {
			sqldb, err := db.ConnectDB(&cfg.Database)
			if err != nil {
				return err
			}
			store := db.NewStore(db.NewDB(sqldb, cfg.Database.Debug), nil, cfg.Database.Dimension)
			defer store.Close()
			if err := store.DropDocuments(ctx); err != nil {
				return err
			}
			log.Info().Msg("Dropped report chunks table")
			return nil
		}

		embed, err := embedding.New(&cfg.EmbedLLM)
		if err != nil {
			return err
		}
		m, err := openChromem(cfg, embed)
		if err != nil {
			return err
		}
		if err := m.DeleteCollection(); err != nil {
			return err
		}
		log.Info().Str("collection", cfg.RAG.CollectionName).Msg("Deleted collection")
		return nil
	},
}

package main

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"esg-rag/internal/config"
	"esg-rag/internal/embedding"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an encrypted backup of the chromem collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RAG.VectorStore != config.VectorStoreChromem {
			return eris.New("export is only supported for the chromem vector store")
		}
		embed, err := embedding.New(&cfg.EmbedLLM)
		if err != nil {
			return err
		}
		m, err := openChromem(cfg, embed)
		if err != nil {
			return err
		}
		if err := m.Export(cmd.Context()); err != nil {
			return err
		}
		log.Info().Str("collection", cfg.RAG.CollectionName).Msg("Exported collection")
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Restore the chromem collection from an encrypted backup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RAG.VectorStore != config.VectorStoreChromem {
			return eris.New("import is only supported for the chromem vector store")
		}
		embed, err := embedding.New(&cfg.EmbedLLM)
		if err != nil {
			return err
		}
		m, err := openChromem(cfg, embed)
		if err != nil {
			return err
		}
		if err := m.Import(cmd.Context()); err != nil {
			return err
		}
		n, _ := m.Count(cmd.Context())
		log.Info().Str("collection", cfg.RAG.CollectionName).Int("chunks", n).Msg("Imported collection")
		return nil
	},
}

package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"esg-rag/internal/extract"
	"esg-rag/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <files...>",
	Short: "Extract, chunk and index report files",
	Long: `Extracts text and tables from each file, splits it into chunks enriched with
company, year, dates, organisations and topic tags, writes the chunks as JSON
to the output directory and adds them to the vector index.

Files that cannot be read are logged and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		p := ingest.NewProcessor(store, extract.New(*cfg.Vocabulary), cfg)
		chunks, err := p.Run(ctx, args)
		if err != nil {
			return err
		}
		log.Info().Int("files", len(args)).Int("chunks", len(chunks)).Str("output", cfg.RAG.OutputDir).Msg("Ingestion finished")
		return nil
	},
}

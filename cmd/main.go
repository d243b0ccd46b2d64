package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"esg-rag/internal/config"
	"esg-rag/internal/helper"
)

const (
	configFilePath = "./configs/config.yaml"
)

var (
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "esg-rag",
	Short: "Question answering over ESG sustainability reports",
	Long: `Ingests sustainability reports (PDF, DOCX, PPTX, spreadsheets, text) into a
vector index and answers questions about them. Comparison questions such as
"Compare Dangote Cement scope 1 emissions between 2022 and 2023" produce one
record per company and year together with aggregate metrics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig(configPath)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c
		helper.SetupLogger(os.Stderr, cfg.LogLevel)
		log.Debug().Str("config", configPath).Str("vector_store", cfg.RAG.VectorStore).Msg("Loaded config")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", configFilePath, "path to the config file")
	rootCmd.AddCommand(ingestCmd, askCmd, exportCmd, importCmd, resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

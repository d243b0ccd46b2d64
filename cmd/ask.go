package main

import (
	"strings"

	"github.com/spf13/cobra"

	"esg-rag/internal/extract"
	"esg-rag/internal/helper"
	"esg-rag/internal/llmservice"
	"esg-rag/internal/rag"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question against the indexed reports",
	Long: `Answers a question and prints the result as JSON.

Examples:
  ask "What were Dangote Cement scope 1 emissions in 2022?"
  ask "Compare Dangote Cement and Lafarge Africa scope 1 emissions in 2022 and 2023"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if askTopK > 0 {
			cfg.RAG.TopK = askTopK
		}

		store, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		llm, err := llmservice.NewModel(&cfg.QALLM)
		if err != nil {
			return err
		}

		r := rag.NewRAG(store, llmservice.NewQAClient(llm), extract.New(*cfg.Vocabulary), cfg)
		res, err := r.Ask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		helper.PrettyPrint(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to answer from (default from config)")
}

package ingest

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"esg-rag/internal/config"
	"esg-rag/internal/extract"
	"esg-rag/internal/helper"
	"esg-rag/internal/models"
	"esg-rag/internal/parser"
)

const allChunksFile = "all_chunks.json"

// Indexer is the write side of a vector store
type Indexer interface {
	AddChunks(ctx context.Context, chunks []models.Chunk) error
}

// Processor turns report files into indexed chunks
type Processor struct {
	indexer   Indexer
	extractor *extract.Extractor
	splitter  *parser.Splitter
	cfg       config.RAGConfig
	now       func() time.Time
}

func NewProcessor(indexer Indexer, extractor *extract.Extractor, cfg *config.Config) *Processor {
	return &Processor{
		indexer:   indexer,
		extractor: extractor,
		splitter:  parser.NewSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		cfg:       cfg.RAG,
		now:       time.Now,
	}
}

// Run extracts the files concurrently, then chunks, saves and indexes each
// document in input order. Files that cannot be extracted are skipped.
func (p *Processor) Run(ctx context.Context, files []string) ([]models.Chunk, error) {
	extractions := make([]*parser.Extraction, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.Workers, 1))
	for i, file := range files {
		g.Go(func() error {
			ext, err := parser.Extract(gctx, file)
			if err != nil {
				log.Warn().Err(err).Str("file", file).Msg("Skipping file")
				return nil
			}
			log.Info().Str("file", file).Int("pages", len(ext.Pages)).Int("tables", len(ext.Tables)).Msg("Extracted document")
			extractions[i] = ext
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.Chunk
	for i, ext := range extractions {
		if ext == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return all, err
		}

		chunks, err := p.Chunk(files[i], ext)
		if err != nil {
			return all, err
		}
		if err := p.save(files[i], ext, chunks); err != nil {
			return all, err
		}
		if err := p.indexer.AddChunks(ctx, chunks); err != nil {
			return all, eris.Wrapf(err, "ingest: index %s", files[i])
		}
		log.Info().Str("file", files[i]).Int("chunks", len(chunks)).Msg("Indexed document")
		all = append(all, chunks...)
	}

	if err := helper.WriteJSON(filepath.Join(p.cfg.OutputDir, allChunksFile), all); err != nil {
		return all, err
	}
	return all, nil
}

// Chunk splits every record of the document and attaches metadata.
// Company and report year are attributed once per document.
func (p *Processor) Chunk(path string, ext *parser.Extraction) ([]models.Chunk, error) {
	text := ext.Text()
	company := p.extractor.Company(path, text)
	year := p.extractor.ReportYear(path, text)
	processedAt := p.now().UTC()

	var chunks []models.Chunk
	for _, rec := range ext.Records() {
		pieces, err := p.splitter.Split(rec.Text)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: split %s page %d", rec.Source, rec.Page)
		}
		for i, piece := range pieces {
			id, err := helper.GenerateUUID()
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, models.Chunk{
				ID:      id,
				Content: piece,
				Metadata: models.ChunkMetadata{
					Source:        rec.Source,
					Page:          rec.Page,
					ChunkIndex:    i,
					WordCount:     len(strings.Fields(piece)),
					Dates:         p.extractor.Dates(piece),
					Organizations: p.extractor.Organizations(piece),
					Tags:          p.extractor.Tags(piece),
					CompanyName:   company,
					ReportYear:    year,
					ProcessedAt:   processedAt,
				},
			})
		}
	}
	return chunks, nil
}

func (p *Processor) save(path string, ext *parser.Extraction, chunks []models.Chunk) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := helper.WriteJSON(filepath.Join(p.cfg.OutputDir, name+"_chunks.json"), chunks); err != nil {
		return err
	}
	tables := ext.Tables
	if tables == nil {
		tables = []models.PageText{}
	}
	return helper.WriteJSON(filepath.Join(p.cfg.OutputDir, name+"_tables.json"), tables)
}

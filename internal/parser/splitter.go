package parser

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/tmc/langchaingo/textsplitter"
)

// Splitter cuts page text into overlapping chunks
type Splitter struct {
	splitter textsplitter.RecursiveCharacter
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	return &Splitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

func (s *Splitter) Split(text string) ([]string, error) {
	chunks, err := s.splitter.SplitText(text)
	if err != nil {
		return nil, eris.Wrap(err, "parser: split text")
	}
	return chunks, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	return data, nil
}

package parser

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"esg-rag/internal/models"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractText(t *testing.T) {
	t.Run("Form feeds split pages", func(t *testing.T) {
		path := writeFile(t, "shell_2022.txt", "Scope 1   emissions were 1,200 tCO2e.\n\n\fPage two text\f\f")

		res, err := Extract(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, "shell_2022.txt", res.Source)
		require.Len(t, res.Pages, 2)
		assert.Equal(t, "Scope 1 emissions were 1,200 tCO2e.", res.Pages[0].Text)
		assert.Equal(t, 1, res.Pages[0].Page)
		assert.Equal(t, models.KindText, res.Pages[0].Kind)
		assert.Equal(t, "shell_2022.txt", res.Pages[0].Source)
		assert.Equal(t, 2, res.Pages[1].Page)
		assert.Empty(t, res.Tables)
	})

	t.Run("Empty file has no pages", func(t *testing.T) {
		res, err := Extract(context.Background(), writeFile(t, "empty.txt", "  \n "))
		require.NoError(t, err)
		assert.Empty(t, res.Pages)
	})
}

func TestExtractMarkdown(t *testing.T) {
	path := writeFile(t, "report.md", "# Climate\n\nOur **scope 2** emissions fell.\n\n- item one\n- item two\n")

	res, err := Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Pages, 1)

	text := res.Pages[0].Text
	assert.Contains(t, text, "Climate")
	assert.Contains(t, text, "Our scope 2 emissions fell.")
	assert.Contains(t, text, "item one")
	assert.NotContains(t, text, "**")
	assert.NotContains(t, text, "#")
}

func TestExtractSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emissions.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Year"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Scope 1"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "2022"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "1500"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	res, err := Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Empty(t, res.Pages)
	require.Len(t, res.Tables, 1)
	assert.Equal(t, models.KindTable, res.Tables[0].Kind)
	assert.Equal(t, 1, res.Tables[0].Page)
	assert.True(t, strings.HasPrefix(res.Tables[0].Text, "Sheet: Sheet1"))
	assert.Contains(t, res.Tables[0].Text, "1500")
	assert.Len(t, res.Records(), 1)
}

func TestExtractPPTX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	slides := map[string]string{
		"ppt/slides/slide10.xml": `<p:sld><a:t>Tenth</a:t></p:sld>`,
		"ppt/slides/slide2.xml":  `<p:sld><a:t>Second &amp; more</a:t></p:sld>`,
		"ppt/slides/_rels/slide2.xml.rels": `<Relationships/>`,
	}
	for name, body := range slides {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	res, err := Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Pages, 2)
	assert.Equal(t, 2, res.Pages[0].Page)
	assert.Equal(t, "Second & more", res.Pages[0].Text)
	assert.Equal(t, 10, res.Pages[1].Page)
}

func TestExtractErrors(t *testing.T) {
	t.Run("Unsupported format", func(t *testing.T) {
		_, err := Extract(context.Background(), writeFile(t, "image.png", "x"))
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrUnsupportedFormat))
	})

	t.Run("Corrupt pdf", func(t *testing.T) {
		_, err := Extract(context.Background(), writeFile(t, "broken.pdf", "not a pdf"))
		require.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
		require.Error(t, err)
	})
}

func TestExtractionText(t *testing.T) {
	e := &Extraction{Pages: []models.PageText{{Text: "a"}, {Text: "b"}}, Tables: []models.PageText{{Text: "t"}}}
	assert.Equal(t, "a\nb\n", e.Text())
	assert.Len(t, e.Records(), 3)
}

func TestSplitter(t *testing.T) {
	s := NewSplitter(50, 10)
	text := strings.Repeat("carbon emissions fell sharply this year. ", 10)

	chunks, err := s.Split(text)
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 50)
	}

	short, err := s.Split("short text")
	require.NoError(t, err)
	assert.Equal(t, []string{"short text"}, short)
}

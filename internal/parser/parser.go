package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"esg-rag/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var ErrUnsupportedFormat = eris.New("parser: unsupported file format")

const (
	defaultPageNumber = 1
)

var (
	docxTextRe  = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>|</w:p>`)
	pptxTextRe  = regexp.MustCompile(`(?s)<a:t>(.*?)</a:t>`)
	pptxSlideRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
)

// Extraction holds the ordered text records of one document
type Extraction struct {
	Source string            `json:"source"`
	Pages  []models.PageText `json:"pages"`
	Tables []models.PageText `json:"tables"`
}

// Records returns page records followed by table records
func (e *Extraction) Records() []models.PageText {
	out := make([]models.PageText, 0, len(e.Pages)+len(e.Tables))
	out = append(out, e.Pages...)
	return append(out, e.Tables...)
}

// Text joins all page text; used for document level attribution
func (e *Extraction) Text() string {
	var b strings.Builder
	for _, p := range e.Pages {
		b.WriteString(p.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// Extract reads the document at filePath and returns its text records in
// page order. Spreadsheet sheets are returned as table records.
func Extract(ctx context.Context, filePath string) (*Extraction, error) {
	source := filepath.Base(filePath)
	ext := strings.ToLower(filepath.Ext(filePath))

	var (
		res *Extraction
		err error
	)
	switch ext {
	case ".pdf":
		res, err = extractPDF(ctx, filePath)
	case ".docx":
		res, err = extractDOCX(filePath)
	case ".pptx":
		res, err = extractPPTX(filePath)
	case ".xlsx":
		res, err = extractXLSX(filePath)
	case ".ods", ".xlsm":
		res, err = extractSheets(filePath)
	case ".md", ".markdown":
		res, err = extractMarkdown(filePath)
	case ".txt":
		res, err = extractText(filePath)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "%s", ext)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "parser: extract %s", source)
	}

	res.Source = source
	for i := range res.Pages {
		res.Pages[i].Source = source
		res.Pages[i].Kind = models.KindText
	}
	for i := range res.Tables {
		res.Tables[i].Source = source
		res.Tables[i].Kind = models.KindTable
	}
	return res, nil
}

func extractPDF(ctx context.Context, filePath string) (res *Extraction, err error) {
	// pdfcpu rejects corrupt files that ledongthuc/pdf would panic on
	pageCount, err := api.PageCountFile(filePath)
	if err != nil {
		return nil, eris.Wrap(err, "invalid pdf")
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, eris.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res = &Extraction{}
	numPages := reader.NumPage()
	if numPages != pageCount {
		log.Debug().Int("pdfcpu", pageCount).Int("reader", numPages).Str("file", filePath).Msg("Page count mismatch")
	}
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Err(err).Int("page", i).Str("file", filePath).Msg("Skipping unreadable page")
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		res.Pages = append(res.Pages, models.PageText{Text: cleanText(pageText), Page: i})
	}
	return res, nil
}

func extractDOCX(filePath string) (*Extraction, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var b strings.Builder
	for _, m := range docxTextRe.FindAllStringSubmatch(content, -1) {
		if m[0] == "</w:p>" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(html.UnescapeString(m[1]))
	}

	res := &Extraction{}
	if t := cleanText(b.String()); t != "" {
		// DOCX has no page numbers
		res.Pages = append(res.Pages, models.PageText{Text: t, Page: defaultPageNumber})
	}
	return res, nil
}

func extractPPTX(filePath string) (*Extraction, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res := &Extraction{}
	for _, file := range f.File {
		m := pptxSlideRe.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		var parts []string
		for _, t := range pptxTextRe.FindAllStringSubmatch(string(data), -1) {
			parts = append(parts, html.UnescapeString(t[1]))
		}
		slideText := cleanText(strings.Join(parts, " "))
		if slideText == "" {
			continue
		}
		slideNum, _ := strconv.Atoi(m[1])
		res.Pages = append(res.Pages, models.PageText{Text: slideText, Page: slideNum})
	}
	sort.Slice(res.Pages, func(i, j int) bool { return res.Pages[i].Page < res.Pages[j].Page })
	return res, nil
}

func extractXLSX(filePath string) (*Extraction, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	res := &Extraction{}
	for sheetNum, sheet := range f.Sheets {
		var rows [][]string
		for _, row := range sheet.Rows {
			var cells []string
			for _, cell := range row.Cells {
				cells = append(cells, cell.String())
			}
			rows = append(rows, cells)
		}
		if t := tableText(sheet.Name, rows); t != "" {
			res.Tables = append(res.Tables, models.PageText{Text: t, Page: sheetNum + 1})
		}
	}
	return res, nil
}

func extractSheets(filePath string) (*Extraction, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res := &Extraction{}
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		if t := tableText(sheetName, rows); t != "" {
			res.Tables = append(res.Tables, models.PageText{Text: t, Page: sheetNum + 1})
		}
	}
	return res, nil
}

func extractMarkdown(filePath string) (*Extraction, error) {
	data, err := readFile(filePath)
	if err != nil {
		return nil, err
	}
	res := &Extraction{}
	if t := cleanText(markdownToText(data)); t != "" {
		res.Pages = append(res.Pages, models.PageText{Text: t, Page: defaultPageNumber})
	}
	return res, nil
}

func extractText(filePath string) (*Extraction, error) {
	data, err := readFile(filePath)
	if err != nil {
		return nil, err
	}
	res := &Extraction{}
	// form feeds separate pages in pdftotext style dumps
	for i, page := range strings.Split(string(data), "\f") {
		if t := cleanText(page); t != "" {
			res.Pages = append(res.Pages, models.PageText{Text: t, Page: i + 1})
		}
	}
	return res, nil
}

// markdownToText walks the goldmark AST and keeps only the text content,
// one line per block.
func markdownToText(src []byte) string {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteString(" ")
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func tableText(name string, rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		line := strings.TrimSpace(strings.Join(row, "\t"))
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return ""
	}
	return fmt.Sprintf("Sheet: %s\n%s", name, strings.TrimSpace(b.String()))
}

// cleanText collapses runs of spaces and blank lines
func cleanText(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

package treebuild

import (
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// buildPDF extracts per-page text from a PDF into the external node
// shape, one "Page N" section per non-empty page with its page index
// as the start and end bound. The returned count is the number of
// pages that produced a node.
func buildPDF(path string) ([]ExternalNode, int, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	nodes := make([]ExternalNode, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Unextractable pages are treated like empty ones.
			content = ""
		}
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		pageNum := i
		nodes = append(nodes, ExternalNode{
			Title:      fmt.Sprintf("Page %d", i),
			Text:       content,
			StartIndex: &pageNum,
			EndIndex:   &pageNum,
		})
	}
	return nodes, len(nodes), nil
}

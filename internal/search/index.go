// Package search indexes the pages of a document session so readers can find pages by
// their words.
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/ar"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/pagewise/internal/models"
)

const (
	// titleBoost weights matches in the page title above matches in the body.
	titleBoost = 2.0
	// fuzziness is the edit distance used when an exact search finds nothing.
	fuzziness = 1
	// minFuzzyTermLen keeps short terms out of fuzzy matching.
	minFuzzyTermLen = 4
)

// pageDoc is the indexed form of one page.
type pageDoc struct {
	Page    int    `json:"page"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PageIndex is an in-memory Bleve index over the pages of one document.
type PageIndex struct {
	index bleve.Index
	vocab vocabulary
}

// NewPageIndex builds an index over record's pages. Titles come from the page analyses and
// the content combines the page text with its explanation and key points.
func NewPageIndex(record *models.DocumentRecord) (*PageIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = analyzerFor(record.Language)
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	numericFieldMapping := bleve.NewNumericFieldMapping()
	docMapping.AddFieldMappingsAt("page", numericFieldMapping)
	im.AddDocumentMapping("page", docMapping)
	im.DefaultType = "page"
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}

	vocab := make(vocabulary)
	batch := index.NewBatch()
	for i, page := range record.Pages {
		doc := pageDoc{Page: i + 1, Title: page.Title, Content: page.Text}
		if i < len(record.Analyses) {
			a := record.Analyses[i]
			if a.Title != "" {
				doc.Title = a.Title
			}
			doc.Content = strings.Join(append([]string{page.Text, a.Explanation}, a.KeyPoints...), "\n")
		}
		vocab.addPage(doc.Title, doc.Content)
		if err := batch.Index(strconv.Itoa(i+1), doc); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("index page %d: %w", i+1, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("index pages: %w", err)
	}
	return &PageIndex{index: index, vocab: vocab}, nil
}

// analyzerFor returns the Bleve analyzer for a document language. Arabic text is
// normalized and stemmed; other text is lowercased and tokenized without stemming.
func analyzerFor(lang models.Language) string {
	if lang == models.LanguageArabic {
		return ar.AnalyzerName
	}
	return standard.Name
}

// Search returns up to limit pages matching query, best first. Exact matching is tried
// first; when it finds nothing, longer terms are matched with typo tolerance.
func (p *PageIndex) Search(ctx context.Context, query string, limit int) ([]*models.PageSearchHit, uint64, error) {
	hits, total, err := p.run(ctx, exactQuery(query), limit)
	if err != nil || total > 0 {
		return hits, total, err
	}
	if fq := fuzzyQuery(query); fq != nil {
		return p.run(ctx, fq, limit)
	}
	return hits, total, nil
}

func (p *PageIndex) run(ctx context.Context, q blevequery.Query, limit int) ([]*models.PageSearchHit, uint64, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"page", "title", "content"}
	req.Highlight = bleve.NewHighlight()
	results, err := p.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("Bleve search failed: %w", err)
	}

	out := make([]*models.PageSearchHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		n, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		title, _ := hit.Fields["title"].(string)
		content, _ := hit.Fields["content"].(string)
		out = append(out, &models.PageSearchHit{
			PageNumber: n,
			Title:      title,
			Score:      hit.Score,
			Fragments:  Fragments(hit.Fragments, content, maxSnippetRunes),
		})
	}
	return out, results.Total, nil
}

// exactQuery matches the query in the title (boosted) or the content.
func exactQuery(query string) blevequery.Query {
	tq := bleve.NewMatchQuery(query)
	tq.SetField("title")
	tq.SetBoost(titleBoost)
	cq := bleve.NewMatchQuery(query)
	cq.SetField("content")
	return bleve.NewDisjunctionQuery(tq, cq)
}

// fuzzyQuery builds a disjunction of fuzzy term queries for the longer query terms, or nil
// when no term is long enough.
func fuzzyQuery(query string) blevequery.Query {
	var queries []blevequery.Query
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if len([]rune(term)) < minFuzzyTermLen {
			continue
		}
		for _, field := range []string{"title", "content"} {
			fq := bleve.NewFuzzyQuery(term)
			fq.SetFuzziness(fuzziness)
			fq.SetField(field)
			queries = append(queries, fq)
		}
	}
	if len(queries) == 0 {
		return nil
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// Suggest returns a spelling correction for query based on the words of the document, or
// "" when every word is known or nothing close exists.
func (p *PageIndex) Suggest(query string) string {
	return p.vocab.Suggest(query)
}

// DocCount returns the number of indexed pages.
func (p *PageIndex) DocCount() (uint64, error) {
	return p.index.DocCount()
}

// Close closes the Bleve index.
func (p *PageIndex) Close() error {
	return p.index.Close()
}

package index

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/datetime/flexible"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Document field names.
const (
	FieldContent = "content"
	FieldAllText = "all_text"
	FieldPointer = "pointer"
	FieldFile    = "file"
	FieldSource  = "source"
)

const (
	// analyzerName tokenizes on Unicode word boundaries and lowercases,
	// without stop words, so short keys and values stay searchable.
	analyzerName = "jsonai_text"

	// noDateParser never parses, which keeps dynamically mapped strings
	// as text instead of datetime fields.
	noDateParser = "jsonai_no_dates"
	noDateLayout = "\x00jsonai\x00"
)

func createIndexMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add custom analyzer: %w", err)
	}
	err = indexMapping.AddCustomDateTimeParser(noDateParser, map[string]interface{}{
		"type":    flexible.Name,
		"layouts": []interface{}{noDateLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add date parser: %w", err)
	}

	indexMapping.DefaultAnalyzer = analyzerName
	indexMapping.DefaultDateTimeParser = noDateParser
	indexMapping.StoreDynamic = false
	indexMapping.DocValuesDynamic = false

	doc := bleve.NewDocumentStaticMapping()

	// Record keys, indexed under content.<key> by dynamic object mapping.
	doc.AddSubDocumentMapping(FieldContent, bleve.NewDocumentMapping())

	allText := bleve.NewTextFieldMapping()
	allText.Analyzer = analyzerName
	allText.Store = false
	allText.IncludeInAll = false
	doc.AddFieldMappingsAt(FieldAllText, allText)

	for _, name := range []string{FieldPointer, FieldFile} {
		kw := bleve.NewKeywordFieldMapping()
		kw.Store = true
		kw.IncludeInAll = false
		doc.AddFieldMappingsAt(name, kw)
	}

	source := bleve.NewTextFieldMapping()
	source.Index = false
	source.Store = true
	source.IncludeInAll = false
	doc.AddFieldMappingsAt(FieldSource, source)

	indexMapping.DefaultMapping = doc
	return indexMapping, nil
}

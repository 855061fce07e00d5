package index

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// ClassSearchIndex provides name search over compiled units using a Bleve in-memory index.
type ClassSearchIndex struct {
	mu    sync.RWMutex
	index bleve.Index
	units []*CompiledUnit // document ID is the position in this slice
}

// classDocument is the document structure stored in Bleve.
type classDocument struct {
	QualifiedName string `json:"qualifiedName"`
	SimpleName    string `json:"simpleName"`
	SimpleLower   string `json:"simpleLower"`
	PackageName   string `json:"packageName"`
	SourceName    string `json:"sourceName"`
}

// NewClassSearchIndex indexes the given units for name search.
func NewClassSearchIndex(units []*CompiledUnit) (*ClassSearchIndex, error) {
	bleveIndex, err := bleve.NewMemOnly(buildClassMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}

	batch := bleveIndex.NewBatch()
	for i, unit := range units {
		simple := unit.SimpleName()
		doc := classDocument{
			QualifiedName: unit.QualifiedName,
			SimpleName:    simple,
			SimpleLower:   strings.ToLower(simple),
			PackageName:   unit.PackageName,
			SourceName:    unit.SourceName,
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			bleveIndex.Close()
			return nil, fmt.Errorf("indexing class %s: %w", unit.QualifiedName, err)
		}
	}
	if batch.Size() == 0 {
		return &ClassSearchIndex{index: bleveIndex, units: units}, nil
	}
	if err := bleveIndex.Batch(batch); err != nil {
		bleveIndex.Close()
		return nil, fmt.Errorf("writing class batch: %w", err)
	}

	return &ClassSearchIndex{index: bleveIndex, units: units}, nil
}

// buildClassMapping creates the Bleve index mapping for compiled units.
func buildClassMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Tokenized simple name for word matches
	simpleFieldMapping := bleve.NewTextFieldMapping()
	simpleFieldMapping.Store = false
	simpleFieldMapping.IncludeInAll = true
	docMapping.AddFieldMappingsAt("simpleName", simpleFieldMapping)

	for _, field := range []string{"qualifiedName", "simpleLower", "packageName", "sourceName"} {
		keywordMapping := bleve.NewKeywordFieldMapping()
		keywordMapping.Store = false
		keywordMapping.IncludeInAll = false
		docMapping.AddFieldMappingsAt(field, keywordMapping)
	}

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// ClassSearchOptions configures a class search.
type ClassSearchOptions struct {
	Query         string
	PackagePrefix string // restrict to packages starting with this prefix
	MaxResults    int
}

// ClassSearchResult is one matching compiled unit.
type ClassSearchResult struct {
	Unit  *CompiledUnit
	Score float64
}

// Search finds compiled units by name.
// Query format:
//   - Plain text: simple class name, matched as a word or a case-insensitive prefix,
//     or an exact source file name
//   - "com.acme.Foo": exact qualified name
//   - com.acme.*Service: wildcard over the qualified name
//   - /regex/: regular expression over the qualified name
func (cs *ClassSearchIndex) Search(options ClassSearchOptions) ([]ClassSearchResult, int, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	if options.MaxResults <= 0 {
		options.MaxResults = 50
	}

	bleveQuery := buildClassQuery(options.Query)
	if options.PackagePrefix != "" {
		pkg := bleve.NewPrefixQuery(options.PackagePrefix)
		pkg.SetField("packageName")
		bleveQuery = bleve.NewConjunctionQuery(bleveQuery, pkg)
	}

	searchRequest := bleve.NewSearchRequest(bleveQuery)
	searchRequest.Size = options.MaxResults
	searchRequest.SortBy([]string{"-_score", "_id"})

	searchResults, err := cs.index.Search(searchRequest)
	if err != nil {
		return nil, 0, fmt.Errorf("searching class index: %w", err)
	}

	results := make([]ClassSearchResult, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil || pos < 0 || pos >= len(cs.units) {
			continue
		}
		results = append(results, ClassSearchResult{Unit: cs.units[pos], Score: hit.Score})
	}
	return results, int(searchResults.Total), nil
}

// buildClassQuery parses the query string into a Bleve query.
func buildClassQuery(queryString string) query.Query {
	queryString = strings.TrimSpace(queryString)

	// Regex query: /pattern/
	if strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/") && len(queryString) > 2 {
		q := bleve.NewRegexpQuery(queryString[1 : len(queryString)-1])
		q.SetField("qualifiedName")
		return q
	}

	// Exact qualified name: "com.acme.Foo"
	if strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") && len(queryString) > 2 {
		q := bleve.NewTermQuery(queryString[1 : len(queryString)-1])
		q.SetField("qualifiedName")
		return q
	}

	if strings.ContainsAny(queryString, "*?") {
		q := bleve.NewWildcardQuery(queryString)
		q.SetField("qualifiedName")
		return q
	}

	match := bleve.NewMatchQuery(queryString)
	match.SetField("simpleName")
	prefix := bleve.NewPrefixQuery(strings.ToLower(queryString))
	prefix.SetField("simpleLower")
	source := bleve.NewTermQuery(queryString)
	source.SetField("sourceName")
	return bleve.NewDisjunctionQuery(match, prefix, source)
}

// DocumentCount returns the number of documents in the Bleve index.
func (cs *ClassSearchIndex) DocumentCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	count, _ := cs.index.DocCount()
	return count
}

// Close closes the Bleve index.
func (cs *ClassSearchIndex) Close() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.index.Close()
}

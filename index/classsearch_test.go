package index

import (
	"testing"
)

func newTestClassSearch(t *testing.T) *ClassSearchIndex {
	t.Helper()
	cs, err := NewClassSearchIndex([]*CompiledUnit{
		newTestUnit("com.acme.OrderService", "OrderService.scala", 1, 80),
		newTestUnit("com.acme.OrderService$Handler", "OrderService.scala", 20, 40),
		newTestUnit("com.acme.billing.InvoiceService", "InvoiceService.java", 5, 60),
		newTestUnit("org.other.Order", "Order.java", 1, 10),
	})
	if err != nil {
		t.Fatalf("failed to create class search index: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func Test_ClassSearchIndex_DocumentCount(t *testing.T) {
	cs := newTestClassSearch(t)
	if cs.DocumentCount() != 4 {
		t.Errorf("expected 4 documents, got %d", cs.DocumentCount())
	}
}

func Test_ClassSearchIndex_ExactQualifiedName(t *testing.T) {
	cs := newTestClassSearch(t)

	results, total, err := cs.Search(ClassSearchOptions{Query: `"org.other.Order"`})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if total != 1 || len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", total)
	}
	if results[0].Unit.QualifiedName != "org.other.Order" {
		t.Errorf("unexpected result %s", results[0].Unit.QualifiedName)
	}
}

func Test_ClassSearchIndex_Wildcard(t *testing.T) {
	cs := newTestClassSearch(t)

	results, _, err := cs.Search(ClassSearchOptions{Query: "com.acme.*Service"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 services, got %d", len(results))
	}
}

func Test_ClassSearchIndex_SimpleNamePrefix(t *testing.T) {
	cs := newTestClassSearch(t)

	results, _, err := cs.Search(ClassSearchOptions{Query: "invoice"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 1 || results[0].Unit.QualifiedName != "com.acme.billing.InvoiceService" {
		t.Errorf("expected InvoiceService, got %+v", results)
	}
}

func Test_ClassSearchIndex_PackagePrefixFilter(t *testing.T) {
	cs := newTestClassSearch(t)

	results, _, err := cs.Search(ClassSearchOptions{Query: "order", PackagePrefix: "org."})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	for _, r := range results {
		if r.Unit.PackageName != "org.other" {
			t.Errorf("unexpected package %s", r.Unit.PackageName)
		}
	}
	if len(results) == 0 {
		t.Error("expected at least one result in org.")
	}
}

func Test_ClassSearchIndex_NoMatch(t *testing.T) {
	cs := newTestClassSearch(t)

	results, total, err := cs.Search(ClassSearchOptions{Query: "zzzznothing"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if total != 0 || len(results) != 0 {
		t.Errorf("expected no results, got %d", total)
	}
}

func Test_ClassSearchIndex_MaxResults(t *testing.T) {
	cs := newTestClassSearch(t)

	results, total, err := cs.Search(ClassSearchOptions{Query: "/.*/", MaxResults: 2})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
	if total != 4 {
		t.Errorf("expected total 4, got %d", total)
	}
}

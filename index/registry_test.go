package index

import (
	"testing"
)

func Test_SourceRegistry_SameNameDifferentDirs(t *testing.T) {
	sr := NewSourceRegistry([]string{
		"/proj/a/Util.java",
		"/proj/src/Foo.scala",
		"/proj/b/Util.java",
	})

	paths := sr.Paths("Util.java")
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %v", paths)
	}
	if paths[0] != "/proj/a/Util.java" || paths[1] != "/proj/b/Util.java" {
		t.Errorf("expected encounter order, got %v", paths)
	}
	if sr.NameCount() != 2 {
		t.Errorf("expected 2 names, got %d", sr.NameCount())
	}
}

func Test_SourceRegistry_DuplicatePathRecordedOnce(t *testing.T) {
	sr := NewSourceRegistry([]string{
		"/proj/src/Foo.scala",
		"/proj/src/./Foo.scala",
	})

	if got := sr.Paths("Foo.scala"); len(got) != 1 {
		t.Errorf("expected 1 path, got %v", got)
	}
	if sr.PathCount() != 1 {
		t.Errorf("expected 1 registered path, got %d", sr.PathCount())
	}
}

func Test_SourceRegistry_UnknownName(t *testing.T) {
	sr := NewSourceRegistry([]string{"/proj/src/Foo.scala"})
	if got := sr.Paths("Bar.scala"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func Test_SourceRegistry_PathsReturnsCopy(t *testing.T) {
	sr := NewSourceRegistry([]string{"/proj/src/Foo.scala"})
	paths := sr.Paths("Foo.scala")
	paths[0] = "mutated"

	if got := sr.Paths("Foo.scala"); got[0] != "/proj/src/Foo.scala" {
		t.Errorf("registry was mutated through returned slice: %v", got)
	}
}

func Test_SourceRegistry_AmbiguousNames(t *testing.T) {
	sr := NewSourceRegistry([]string{
		"/a/Util.java", "/b/Util.java", "/a/Main.java", "/a/package.scala", "/b/package.scala",
	})

	names := sr.AmbiguousNames()
	if len(names) != 2 || names[0] != "Util.java" || names[1] != "package.scala" {
		t.Errorf("expected [Util.java package.scala], got %v", names)
	}
}

func Test_SourceRegistry_SearchByGlob(t *testing.T) {
	sr := NewSourceRegistry([]string{
		"/proj/src/main/scala/Foo.scala",
		"/proj/src/main/java/Bar.java",
		"/proj/src/test/scala/FooSpec.scala",
	})

	results, err := sr.SearchByGlob("**/*.scala", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 scala files, got %v", results)
	}

	results, err = sr.SearchByGlob("proj/src/main/**", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 main files, got %v", results)
	}
}

func Test_SourceRegistry_SearchByGlob_InvalidPattern(t *testing.T) {
	sr := NewSourceRegistry(nil)
	if _, err := sr.SearchByGlob("[invalid", 50); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func Test_SourceRegistry_SearchByGlob_MaxResults(t *testing.T) {
	var paths []string
	for i := 0; i < 20; i++ {
		paths = append(paths, "/proj/src/F"+string(rune('a'+i))+".java")
	}
	sr := NewSourceRegistry(paths)

	results, err := sr.SearchByGlob("**/*.java", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("expected 5 results, got %d", len(results))
	}
}

func Test_SourceRegistry_AllPathsSorted(t *testing.T) {
	sr := NewSourceRegistry([]string{"/b/Z.java", "/a/Y.java", "/a/Y.java"})

	got := sr.AllPaths()
	want := []string{"/a/Y.java", "/b/Z.java"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected %v, got %v", want, got)
	}

	got[0] = "mutated"
	if sr.AllPaths()[0] != "/a/Y.java" {
		t.Error("expected AllPaths to return a copy")
	}
}

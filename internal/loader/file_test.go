package loader

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/civic-records/registry-search/pkg/config"
)

func TestFileLoaderPreservesOrderAndBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.txt")
	content := "Rossi4500001970A\n\nBianchi6700001985B\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// The blank line keeps its position so later records keep theirs.
	want := []string{"Rossi4500001970A", "", "Bianchi6700001985B"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Load = %v, want %v", lines, want)
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "absent.txt")).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing corpus file")
	}
}

func TestFromConfig(t *testing.T) {
	pg := config.PostgresConfig{}

	ldr, err := FromConfig(config.CorpusConfig{Source: "file", Path: "x"}, pg)
	if err != nil {
		t.Fatalf("file source: %v", err)
	}
	if _, ok := ldr.(*FileLoader); !ok {
		t.Errorf("file source loader = %T", ldr)
	}

	// Empty source defaults to file.
	ldr, err = FromConfig(config.CorpusConfig{Path: "x"}, pg)
	if err != nil {
		t.Fatalf("default source: %v", err)
	}
	if _, ok := ldr.(*FileLoader); !ok {
		t.Errorf("default source loader = %T", ldr)
	}

	ldr, err = FromConfig(config.CorpusConfig{Source: "postgres"}, pg)
	if err != nil {
		t.Fatalf("postgres source: %v", err)
	}
	if _, ok := ldr.(*PostgresLoader); !ok {
		t.Errorf("postgres source loader = %T", ldr)
	}

	ldr, err = FromConfig(config.CorpusConfig{Source: "sqlite", Path: "x.db"}, pg)
	if err != nil {
		t.Fatalf("sqlite source: %v", err)
	}
	if _, ok := ldr.(*SQLiteLoader); !ok {
		t.Errorf("sqlite source loader = %T", ldr)
	}

	if _, err := FromConfig(config.CorpusConfig{Source: "ftp"}, pg); err == nil {
		t.Error("expected error for unknown source")
	}
}

package loader

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// FileLoader reads a newline-delimited corpus file. Blank lines are kept:
// they occupy a position in the corpus even though they contribute to no
// index.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Load(ctx context.Context) ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus file %s: %w", l.path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus file %s: %w", l.path, err)
	}
	return lines, nil
}

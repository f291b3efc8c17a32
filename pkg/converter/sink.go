package converter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink hands out one destination stream per output file
type Sink interface {
	Create(name string) (io.WriteCloser, error)
}

// DirSink writes output files into a directory
type DirSink struct {
	Dir string
}

// Create creates or truncates name inside the sink directory
func (d DirSink) Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(filepath.Join(d.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// OutputFile is a file captured by MemorySink
type OutputFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// MemorySink keeps output files in memory, in creation order
type MemorySink struct {
	Files []OutputFile
}

// Create returns a buffer that is recorded when closed
func (m *MemorySink) Create(name string) (io.WriteCloser, error) {
	return &memoryFile{name: name, sink: m}, nil
}

type memoryFile struct {
	bytes.Buffer
	name string
	sink *MemorySink
}

func (f *memoryFile) Close() error {
	f.sink.Files = append(f.sink.Files, OutputFile{Name: f.name, Content: f.String()})
	return nil
}

package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	utilyaml "k8s.io/apimachinery/pkg/util/yaml"

	"github.com/azhar-beg/backstage/internal/object"
)

// stdinPath selects standard input as the manifest source.
const stdinPath = "-"

// openInput opens path for reading, or returns stdin for "-".
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == stdinPath {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// readDocuments splits a multi-document YAML or JSON stream into
// objects, in order. Empty and null documents are skipped.
func readDocuments(r io.Reader) ([]object.Value, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(r))

	var docs []object.Value
	for i := 0; ; i++ {
		raw, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read document %d: %w", i, err)
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		v, err := object.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse document %d: %w", i, err)
		}
		if v.IsNull() {
			continue
		}
		docs = append(docs, v)
	}
}

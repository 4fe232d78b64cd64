package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/2beens/fitcoach/internal/fitness"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrCorruptDocument = errors.New("fitness data file is not a valid document")

// FileStore keeps the fitness document in a single pretty printed JSON file.
// Every Save rewrites the whole file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document, returning an empty one when the file does not exist yet.
// Keys missing from older files are back-filled.
func (s *FileStore) Load(ctx context.Context) (_ *fitness.Document, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "datastore.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", s.path))

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debugf("data file [%s] not found, starting with an empty document", s.path)
			return fitness.NewDocument(), nil
		}
		return nil, fmt.Errorf("read data file %s: %w", s.path, err)
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	return doc, nil
}

// Save overwrites the data file with the full document.
func (s *FileStore) Save(ctx context.Context, doc *fitness.Document) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "datastore.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", s.path))

	data, err := Encode(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp data file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp data file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp data file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace data file %s: %w", s.path, err)
	}

	return nil
}

// Encode serializes the document the way it is stored on disk:
// 4 space indent and a trailing newline.
func Encode(doc *fitness.Document) ([]byte, error) {
	if doc == nil {
		doc = fitness.NewDocument()
	}
	doc.BackFill()

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal fitness document: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a stored document and back-fills missing keys.
func Decode(data []byte) (*fitness.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top level value must be a JSON object", ErrCorruptDocument)
	}

	var doc fitness.Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	doc.BackFill()

	return &doc, nil
}

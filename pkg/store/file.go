package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vonderheiden/bannerforge/pkg/errors"
)

// FileStore persists records in a directory: one JSON document per
// record with the PNG artifact as a sibling file, so saved banners
// stay directly usable from the filesystem.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// checkID rejects ids that are not UUIDs before they reach the
// filesystem, so a crafted id cannot name a path outside the store.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeRecordNotFound, "record %s not found", id)
	}
	return nil
}

// Save writes the metadata document and the artifact.
func (s *FileStore) Save(ctx context.Context, rec Record) error {
	if _, err := uuid.Parse(rec.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "record id %q", rec.ID)
	}
	png := rec.PNG
	rec.PNG = nil
	doc, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.jsonPath(rec.ID), doc, 0644); err != nil {
		return err
	}
	if len(png) > 0 {
		return os.WriteFile(s.pngPath(rec.ID), png, 0644)
	}
	return nil
}

// Get reads a record and its artifact.
func (s *FileStore) Get(ctx context.Context, id string) (Record, error) {
	if err := checkID(id); err != nil {
		return Record{}, err
	}
	doc, err := os.ReadFile(s.jsonPath(id))
	if os.IsNotExist(err) {
		return Record{}, errors.New(errors.ErrCodeRecordNotFound, "record %s not found", id)
	}
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInternal, err, "record %s is corrupt", id)
	}
	if png, err := os.ReadFile(s.pngPath(id)); err == nil {
		rec.PNG = png
	}
	return rec, nil
}

// List reads all metadata documents, newest first.
func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		doc, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(doc, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a record and its artifact.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	err := os.Remove(s.jsonPath(id))
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeRecordNotFound, "record %s not found", id)
	}
	if err != nil {
		return err
	}
	_ = os.Remove(s.pngPath(id))
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

func (s *FileStore) jsonPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) pngPath(id string) string {
	return filepath.Join(s.dir, id+".png")
}

var _ Store = (*FileStore)(nil)

// cmd/tools/submit-application/fixture.go
package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"loan-intake/internal/models"
)

// Fixture is an application described in YAML: text fields by wire name and
// document files by slot.
type Fixture struct {
	RelayURL  string            `yaml:"relay_url"`
	Fields    map[string]string `yaml:"fields"`
	Documents map[string]string `yaml:"documents"`

	dir string
}

func loadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	fx.dir = filepath.Dir(path)
	return &fx, nil
}

// readDocument loads one document file. Relative paths resolve against the
// fixture's directory.
func (fx *Fixture) readDocument(path string) (*models.File, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(fx.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &models.File{
		Name:        filepath.Base(path),
		ContentType: detectContentType(path, data),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

func detectContentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			return mediaType
		}
	}
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mediaType
}

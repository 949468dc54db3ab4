package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/socialscope/internal/model"
)

// ErrUnknownManifestFormat is returned for manifests that are not .json, .yaml or .yml.
var ErrUnknownManifestFormat = errors.New("unknown manifest format")

// manifestDoc matches the /api/datasets response shape.
type manifestDoc struct {
	Success  *bool           `json:"success,omitempty" yaml:"success,omitempty"`
	Datasets []model.Dataset `json:"datasets" yaml:"datasets"`
}

// LoadManifest reads a catalog from a JSON or YAML file. The document is
// either {"datasets": [...]} or a bare array of datasets.
func LoadManifest(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var datasets []model.Dataset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		datasets, err = decodeJSONManifest(data)
	case ".yaml", ".yml":
		datasets, err = decodeYAMLManifest(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownManifestFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	cat := &Catalog{Origin: path, Datasets: datasets}
	for i := range cat.Datasets {
		ds := &cat.Datasets[i]
		if strings.TrimSpace(ds.ID) == "" {
			cat.warnf("dataset %d in manifest has no id", i)
		}
		if ds.Source != "" {
			if src, err := model.ParseSource(string(ds.Source)); err == nil {
				ds.Source = src
			} else {
				cat.warnf("dataset %q: %v", ds.ID, err)
			}
		}
	}
	return cat, nil
}

func decodeJSONManifest(data []byte) ([]model.Dataset, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []model.Dataset
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var doc manifestDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	if doc.Success != nil && !*doc.Success {
		return nil, errors.New("manifest reports success=false")
	}
	return doc.Datasets, nil
}

func decodeYAMLManifest(data []byte) ([]model.Dataset, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var list []model.Dataset
		if err := root.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var doc manifestDoc
	if err := root.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Datasets, nil
}

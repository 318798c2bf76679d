package services

import (
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"gopkg.in/yaml.v3"
)

// seedFile is the layout of an import document:
//
//	plants:
//	  - id: p1
//	    name: Tulsi
//	    scientific_name: Ocimum tenuiflorum
//	    family: Lamiaceae
//	    description: Sacred basil.
//	    rasa: [Katu, Tikta]
//
// A bare top-level list of records is accepted too.
type seedFile struct {
	Plants []models.Plant `yaml:"plants"`
}

func decodeSeed(r io.Reader) ([]models.Plant, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, errors.New("decode seed: empty document")
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var list []models.Plant
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode seed: %w", err)
		}
		return list, nil
	case yaml.MappingNode:
		var f seedFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode seed: %w", err)
		}
		return f.Plants, nil
	default:
		return nil, errors.New("decode seed: expected a list of plants or a plants key")
	}
}

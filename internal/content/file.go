package content

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Packs Packs `yaml:"packs"`
}

// LoadYAML reads word packs from a file shaped like:
//
//	packs:
//	  Animals: [CAT, DOG, HORSE]
//	  Fruit: [APPLE, PEAR]
func LoadYAML(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word packs %s: %w", path, err)
	}
	defer f.Close()
	return ParseYAML(f)
}

func ParseYAML(r io.Reader) (*Static, error) {
	var doc yamlFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse word packs: %w", err)
	}
	return NewStatic(doc.Packs), nil
}

// LoadCSV reads word packs from "category,word" rows. Rows with fewer than
// two fields or an empty field are skipped.
func LoadCSV(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word packs %s: %w", path, err)
	}
	defer f.Close()
	return ParseCSV(f)
}

func ParseCSV(r io.Reader) (*Static, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse word packs as CSV: %w", err)
	}

	packs := Packs{}
	for _, record := range records {
		if len(record) < 2 {
			continue
		}
		category, word := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if category == "" || word == "" {
			continue
		}
		packs[category] = append(packs[category], word)
	}
	return NewStatic(packs), nil
}

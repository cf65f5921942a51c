package requirement

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceDocument is the document-level metadata block of a requirement
// document. Confluence is kept as a raw record because source systems vary
// in which fields they populate and with which types.
type SourceDocument struct {
	Title        string
	RelativePath string
	SourceType   string
	RetrievedAt  string
	Confluence   Record
}

// Document is one parsed requirement document: source metadata plus the
// requirement records it contributes.
type Document struct {
	Source        SourceDocument
	Requirements  []Record
	OpenQuestions []string

	// FileName is the basename of the file the document was loaded from,
	// used as the origin key when the source metadata has no relativePath.
	FileName string
}

// Key returns the document's origin key: the declared relativePath when
// present, else the file name.
func (d *Document) Key() string {
	if rel := strings.TrimSpace(d.Source.RelativePath); rel != "" {
		return rel
	}
	return d.FileName
}

// DisplayTitle returns the document title for rendering, falling back to
// the relativePath basename and then the file name.
func (d *Document) DisplayTitle() string {
	if t := strings.TrimSpace(d.Source.Title); t != "" {
		return t
	}
	if rel := strings.TrimSpace(d.Source.RelativePath); rel != "" {
		return filepath.Base(rel)
	}
	return d.FileName
}

// URL returns the source URL when the document carries one.
func (d *Document) URL() string {
	if d.Source.Confluence == nil {
		return ""
	}
	return d.Source.Confluence.String("url")
}

// ParseDocument decodes one requirement document. Decoding is tolerant:
// requirement entries that are not mappings and open questions that are not
// strings are dropped rather than failing the document. Only JSON that does
// not decode to an object at the top level is an error.
func ParseDocument(fileName string, data []byte) (*Document, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse requirement document %s: %w", fileName, err)
	}

	doc := &Document{FileName: fileName}
	rec := Record(root)

	if src, ok := ValueOf(root["sourceDocument"]).Map(); ok {
		srcRec := Record(src)
		doc.Source = SourceDocument{
			Title:        srcRec.String("title"),
			RelativePath: srcRec.String("relativePath"),
			SourceType:   srcRec.String("sourceType"),
			RetrievedAt:  srcRec.String("retrievedAt"),
		}
		if conf, ok := ValueOf(src["confluence"]).Map(); ok {
			doc.Source.Confluence = Record(conf)
		}
	}

	if reqs, ok := ValueOf(root["requirements"]).Seq(); ok {
		for _, item := range reqs {
			if m, ok := ValueOf(item).Map(); ok {
				doc.Requirements = append(doc.Requirements, Record(m))
			}
		}
	}

	if questions, ok := ValueOf(rec["openQuestions"]).Seq(); ok {
		for _, item := range questions {
			if q, ok := ValueOf(item).Str(); ok {
				if q = strings.TrimSpace(q); q != "" {
					doc.OpenQuestions = append(doc.OpenQuestions, q)
				}
			}
		}
	}

	return doc, nil
}

// LoadFile reads and parses one requirement document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read requirement document: %w", err)
	}
	return ParseDocument(filepath.Base(path), data)
}

// LoadFiles reads and parses a set of requirement documents, preserving
// the given order.
func LoadFiles(paths []string) ([]*Document, error) {
	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		doc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

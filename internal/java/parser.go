// Package java implements the source and project model for student Java
// code: structural parsing and classification of source files, project
// discovery, and the compile/run/test operations graders build on.
package java

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// Parser owns the parse tree of one piece of Java source and answers
// structural queries against it.
type Parser struct {
	source []byte
	tree   *sitter.Tree
	lang   *sitter.Language
}

// Capture is one captured node from a query, with its text and 1-based
// source line.
type Capture struct {
	Text string
	Line int
}

// NewParser parses the given source and returns a Parser over its tree.
func NewParser(source string) (*Parser, error) {
	lang := java.GetLanguage()

	p := sitter.NewParser()
	p.SetLanguage(lang)

	tree, err := p.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	return &Parser{
		source: []byte(source),
		tree:   tree,
		lang:   lang,
	}, nil
}

// Source returns the source text this parser was built from.
func (p *Parser) Source() string {
	return string(p.source)
}

// Query runs a structural query and returns one capture-name to text map
// per match. Matches eliminated by query predicates are dropped.
func (p *Parser) Query(query string) ([]map[string]string, error) {
	q, err := sitter.NewQuery([]byte(query), p.lang)
	if err != nil {
		return nil, fmt.Errorf("bad query %q: %w", query, err)
	}
	defer q.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	cursor.Exec(q, p.tree.RootNode())

	var results []map[string]string

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}

		match = cursor.FilterPredicates(match, p.source)
		if len(match.Captures) == 0 {
			continue
		}

		row := make(map[string]string, len(match.Captures))
		for _, c := range match.Captures {
			row[q.CaptureNameForId(c.Index)] = c.Node.Content(p.source)
		}

		results = append(results, row)
	}

	return results, nil
}

// QueryCaptures runs a structural query and returns the named capture from
// every match, with source positions.
func (p *Parser) QueryCaptures(query, capture string) ([]Capture, error) {
	q, err := sitter.NewQuery([]byte(query), p.lang)
	if err != nil {
		return nil, fmt.Errorf("bad query %q: %w", query, err)
	}
	defer q.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	cursor.Exec(q, p.tree.RootNode())

	var results []Capture

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}

		match = cursor.FilterPredicates(match, p.source)

		for _, c := range match.Captures {
			if q.CaptureNameForId(c.Index) != capture {
				continue
			}

			results = append(results, Capture{
				Text: c.Node.Content(p.source),
				Line: int(c.Node.StartPoint().Row) + 1,
			})
		}
	}

	return results, nil
}

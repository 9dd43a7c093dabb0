package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// BookIndex keeps catalog entries in one Elasticsearch index, keyed by book id.
type BookIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewBookIndex(es *elasticsearch.Client, index string) *BookIndex {
	return &BookIndex{ES: es, Index: index}
}

func (x *BookIndex) IndexBook(ctx context.Context, b *entity.Book) error {
	body, err := json.Marshal(b)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: b.ID, Body: bytes.NewReader(body), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index book %s: %s", b.ID, res.Status())
	}
	return nil
}

// DeleteBook treats a missing document as success.
func (x *BookIndex) DeleteBook(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete book %s: %s", id, res.Status())
	}
	return nil
}

// SearchBooks runs a multi_match over title, authors and description.
func (x *BookIndex) SearchBooks(ctx context.Context, q string, size int) ([]entity.Book, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"volumeInfo.title^2", "volumeInfo.authors", "volumeInfo.description"},
			},
		},
		"size": size,
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode == http.StatusNotFound {
		// index not created yet: nothing has been added
		return []entity.Book{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("search books: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string      `json:"_id"`
				Source entity.Book `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Book, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		b := h.Source
		if b.ID == "" {
			b.ID = h.ID
		}
		out = append(out, b)
	}
	return out, nil
}

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/prasowlabs/moi-kanakku/internal/models"
)

// Search runs a fuzzy multi-field query over a user's indexed persons.
func Search(ctx context.Context, es *elasticsearch.Client, index string, userID int64, query string, from, size int) (int64, []models.Person, error) {
	if es == nil {
		return 0, nil, fmt.Errorf("search is not configured")
	}
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"userId": userID},
				},
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"firstName^2", "secondName", "city", "mobile", "business"},
						"fuzziness": "AUTO",
					},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search encode: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Person `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	persons := make([]models.Person, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		persons[i] = hit.Source
	}
	return r.Hits.Total.Value, persons, nil
}

// IndexPerson upserts a person document. Failures are the caller's problem
// to log; indexing never blocks the write path.
func IndexPerson(ctx context.Context, es *elasticsearch.Client, index string, person *models.Person) error {
	if es == nil {
		return nil
	}
	data, err := json.Marshal(person)
	if err != nil {
		return err
	}
	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithDocumentID(strconv.FormatInt(person.ID, 10)),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index person: %s", res.Status())
	}
	return nil
}

package structure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	searchRows        = 10
	titleFetchWorkers = 4
)

// Result is one search hit
type Result struct {
	ID    string
	Title string
}

type searchQuery struct {
	Query struct {
		Type       string `json:"type"`
		Service    string `json:"service"`
		Parameters struct {
			Value string `json:"value"`
		} `json:"parameters"`
	} `json:"query"`
	ReturnType     string `json:"return_type"`
	RequestOptions struct {
		Paginate struct {
			Start int `json:"start"`
			Rows  int `json:"rows"`
		} `json:"paginate"`
		ResultsContentType []string `json:"results_content_type"`
	} `json:"request_options"`
}

type searchResponse struct {
	ResultSet []struct {
		Identifier string  `json:"identifier"`
		Score      float64 `json:"score"`
	} `json:"result_set"`
}

type entryResponse struct {
	Struct struct {
		Title string `json:"title"`
	} `json:"struct"`
}

func newSearchQuery(text string) searchQuery {
	var q searchQuery
	q.Query.Type = "terminal"
	q.Query.Service = "full_text"
	q.Query.Parameters.Value = text
	q.ReturnType = "entry"
	q.RequestOptions.Paginate.Rows = searchRows
	q.RequestOptions.ResultsContentType = []string{"experimental"}
	return q
}

// Search runs an RCSB full text query and returns up to ten entries with titles
// Entries whose title cannot be fetched keep an empty title
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(newSearchQuery(query))
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.SearchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		// RCSB answers 204 when nothing matches
		return nil, nil
	default:
		return nil, fmt.Errorf("search: %w: %s", ErrBadStatus, resp.Status)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]Result, 0, len(sr.ResultSet))
	for _, hit := range sr.ResultSet {
		if IsPDBID(hit.Identifier) {
			results = append(results, Result{ID: strings.ToUpper(hit.Identifier)})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(titleFetchWorkers)
	for i := range results {
		g.Go(func() error {
			title, err := c.fetchTitle(gctx, results[i].ID)
			if err != nil {
				c.logf("title for %s: %v", results[i].ID, err)
				return nil
			}
			results[i].Title = title
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (c *Client) fetchTitle(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.EntryURL+id, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}
	var er entryResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return "", err
	}
	return er.Struct.Title, nil
}

// Package search provides the Elasticsearch-backed following index.
// The index is the query surface for filtered followings reads; it is
// populated together with the snapshot cache and accepted to drift from it
// between a cache write and the matching upsert (eventual consistency).
package search

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"follow-digest/internal/domain/entity"

	"github.com/olivere/elastic/v7"
)

// FollowingIndexName is the Elasticsearch index holding following documents.
const FollowingIndexName = "followings"

//go:embed following_index.json
var followingIndexMapping string

// FollowingDoc is the denormalized projection of a FollowingUser stored in
// the index. platform_name and parent_username are the filter dimensions;
// documents are overwritten on repopulation and never independently deleted.
type FollowingDoc struct {
	PlatformName      string `json:"platform_name"`
	ParentUsername    string `json:"parent_username"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	ProfileURL        string `json:"profile_url"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// ElasticIndex implements the orchestrator's following index on Elasticsearch.
type ElasticIndex struct {
	client *elastic.Client
}

// NewElasticIndex creates an ElasticIndex around an existing client.
func NewElasticIndex(client *elastic.Client) *ElasticIndex {
	return &ElasticIndex{client: client}
}

// InitIndex creates the followings index if it does not exist yet.
// Safe to call from multiple instances: creation races resolve to one winner.
func InitIndex(client *elastic.Client) error {
	const timeout = 10 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ok, err := client.IndexExists(FollowingIndexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("check index %s: %w", FollowingIndexName, err)
	}
	if ok {
		return nil
	}
	if _, err := client.CreateIndex(FollowingIndexName).Body(followingIndexMapping).Do(ctx); err != nil {
		return fmt.Errorf("create index %s: %w", FollowingIndexName, err)
	}
	return nil
}

// UpsertFollowings writes one document per following using a bulk request.
// Document IDs are deterministic, so repopulating the same parent overwrites
// the previous documents instead of accumulating duplicates.
func (e *ElasticIndex) UpsertFollowings(ctx context.Context, platform entity.Platform, parentUsername string, followings []entity.FollowingUser) error {
	if len(followings) == 0 {
		return nil
	}

	bulk := e.client.Bulk().Index(FollowingIndexName)
	for _, f := range followings {
		doc := FollowingDoc{
			PlatformName:      string(platform),
			ParentUsername:    parentUsername,
			Username:          f.Username,
			FullName:          f.FullName,
			ProfileURL:        f.ProfileURL,
			ProfilePictureURL: f.ProfilePictureURL,
		}
		bulk.Add(elastic.NewBulkIndexRequest().
			Id(docID(platform, parentUsername, f.Username)).
			Doc(doc))
	}

	resp, err := bulk.Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk upsert followings: %w", err)
	}
	if resp.Errors {
		for _, item := range resp.Failed() {
			return fmt.Errorf("bulk upsert followings: doc %s failed: %s", item.Id, item.Error.Reason)
		}
	}
	return nil
}

// SearchFollowings runs a free-text query constrained to one platform and
// parent username. An empty query matches every document of that parent.
func (e *ElasticIndex) SearchFollowings(ctx context.Context, platform entity.Platform, parentUsername, query string) ([]entity.FollowingUser, error) {
	q := elastic.NewBoolQuery().
		Filter(
			elastic.NewTermQuery("platform_name", string(platform)),
			elastic.NewTermQuery("parent_username", parentUsername),
		)
	if query != "" {
		q.Must(elastic.NewMultiMatchQuery(query, "full_name", "username").
			Type("best_fields").
			Fuzziness("AUTO"))
	}

	resp, err := e.client.Search(FollowingIndexName).
		Query(q).
		Size(1000).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search followings: %w", err)
	}

	out := make([]entity.FollowingUser, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var doc FollowingDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("decode following doc %s: %w", hit.Id, err)
		}
		out = append(out, entity.FollowingUser{
			FullName:          doc.FullName,
			Username:          doc.Username,
			ProfileURL:        doc.ProfileURL,
			ProfilePictureURL: doc.ProfilePictureURL,
		})
	}
	return out, nil
}

func docID(platform entity.Platform, parentUsername, username string) string {
	return fmt.Sprintf("%s:%s:%s", platform, parentUsername, username)
}

package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
	"github.com/LewisCM14/allotment-sub001/pkg/helpers"
)

// GrowGuideService serves the read-only plant reference data and the
// ES-backed variety search. The ES client is optional; without one the
// search endpoint returns empty results.
type GrowGuideService struct {
	Repo    repository.GrowGuideRepository
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewGrowGuideService(repo repository.GrowGuideRepository, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *GrowGuideService {
	return &GrowGuideService{Repo: repo, ES: es, ESIndex: esIndex, Logger: logger}
}

func (s *GrowGuideService) ListBotanicalGroups(ctx context.Context) ([]entity.BotanicalGroup, error) {
	return s.Repo.ListBotanicalGroups(ctx)
}

func (s *GrowGuideService) GetFamily(ctx context.Context, id string) (*entity.Family, error) {
	return s.Repo.GetFamily(ctx, id)
}

func (s *GrowGuideService) GetVariety(ctx context.Context, id string) (*entity.Variety, error) {
	return s.Repo.GetVariety(ctx, id)
}

func (s *GrowGuideService) ListVarieties(ctx context.Context) ([]entity.Variety, error) {
	return s.Repo.ListVarieties(ctx)
}

// IndexVariety writes one variety document into the search index. Failures
// are logged and swallowed; search is best-effort on top of the relational
// source of truth.
func (s *GrowGuideService) IndexVariety(ctx context.Context, v *entity.Variety) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          v.ID,
		"name":        v.Name,
		"family_name": v.FamilyName,
		"lifecycle":   v.Lifecycle,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: v.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		helpers.LogWarn(s.Logger, "es index failed", err, logrus.Fields{"variety_id": v.ID})
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		helpers.LogWarn(s.Logger, "es index response error", nil, logrus.Fields{"status": res.Status(), "variety_id": v.ID})
	}
	return nil
}

// SearchVarieties performs a multi_match search on variety and family
// names.
func (s *GrowGuideService) SearchVarieties(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "family_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

package upstream

import (
	"context"
	"strings"

	"resty.dev/v3"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcache"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiMaxPages       = 10
)

type GeminiLister struct {
	client *resty.Client
}

func NewGeminiLister(client *resty.Client) *GeminiLister {
	return &GeminiLister{client: client}
}

type geminiModelsResponse struct {
	Models []struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"models"`
	NextPageToken string `json:"nextPageToken"`
}

func (l *GeminiLister) ListModels(ctx context.Context, p provider.Provider, apiKey string) ([]modelcache.Model, error) {
	baseURL := p.ConfigString("base_url")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	var (
		models    []modelcache.Model
		pageToken string
	)
	for page := 0; page < geminiMaxPages; page++ {
		var body geminiModelsResponse
		req := l.client.R().
			SetContext(ctx).
			SetHeader("x-goog-api-key", apiKey).
			SetQueryParam("pageSize", "1000").
			SetResult(&body)
		if pageToken != "" {
			req.SetQueryParam("pageToken", pageToken)
		}
		resp, err := req.Get(joinURL(baseURL, "/models"))
		if err != nil {
			return nil, transportError(ctx, err, "gemini list models request failed")
		}
		if resp.IsError() {
			return nil, errorFromResponse(ctx, resp, "gemini list models request failed")
		}

		for _, m := range body.Models {
			models = append(models, modelcache.Model{
				ID:      strings.TrimPrefix(m.Name, "models/"),
				Name:    m.DisplayName,
				OwnedBy: "google",
			})
		}
		if body.NextPageToken == "" {
			break
		}
		pageToken = body.NextPageToken
	}
	return models, nil
}

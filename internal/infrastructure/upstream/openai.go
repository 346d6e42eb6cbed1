package upstream

import (
	"context"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcache"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAILister lists models from OpenAI and any server speaking its API.
type OpenAILister struct {
	httpClient *http.Client
}

func NewOpenAILister(timeout time.Duration) *OpenAILister {
	return &OpenAILister{httpClient: &http.Client{Timeout: timeout}}
}

func (l *OpenAILister) ListModels(ctx context.Context, p provider.Provider, apiKey string) ([]modelcache.Model, error) {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = defaultOpenAIBaseURL
	if baseURL := p.ConfigString("base_url"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if org := p.ConfigString("organization"); org != "" {
		cfg.OrgID = org
	}
	cfg.HTTPClient = l.httpClient

	list, err := openai.NewClientWithConfig(cfg).ListModels(ctx)
	if err != nil {
		return nil, transportError(ctx, err, "openai list models request failed")
	}

	models := make([]modelcache.Model, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, modelcache.Model{
			ID:      m.ID,
			OwnedBy: m.OwnedBy,
			Created: m.CreatedAt,
		})
	}
	return models, nil
}

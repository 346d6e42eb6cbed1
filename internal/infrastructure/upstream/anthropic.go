package upstream

import (
	"context"
	"time"

	"resty.dev/v3"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcache"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
)

type AnthropicLister struct {
	client *resty.Client
}

func NewAnthropicLister(client *resty.Client) *AnthropicLister {
	return &AnthropicLister{client: client}
}

type anthropicModelsResponse struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		CreatedAt   string `json:"created_at"`
	} `json:"data"`
	HasMore bool   `json:"has_more"`
	LastID  string `json:"last_id"`
}

func (l *AnthropicLister) ListModels(ctx context.Context, p provider.Provider, apiKey string) ([]modelcache.Model, error) {
	baseURL := p.ConfigString("base_url")
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}

	var models []modelcache.Model
	afterID := ""
	for {
		var body anthropicModelsResponse
		req := l.client.R().
			SetContext(ctx).
			SetHeader("x-api-key", apiKey).
			SetHeader("anthropic-version", anthropicVersion).
			SetQueryParam("limit", "1000").
			SetResult(&body)
		if afterID != "" {
			req.SetQueryParam("after_id", afterID)
		}
		resp, err := req.Get(joinURL(baseURL, "/models"))
		if err != nil {
			return nil, transportError(ctx, err, "anthropic list models request failed")
		}
		if resp.IsError() {
			return nil, errorFromResponse(ctx, resp, "anthropic list models request failed")
		}

		for _, m := range body.Data {
			model := modelcache.Model{ID: m.ID, Name: m.DisplayName, OwnedBy: "anthropic"}
			if ts, err := time.Parse(time.RFC3339, m.CreatedAt); err == nil {
				model.Created = ts.Unix()
			}
			models = append(models, model)
		}
		if !body.HasMore || body.LastID == "" || body.LastID == afterID {
			break
		}
		afterID = body.LastID
	}
	return models, nil
}

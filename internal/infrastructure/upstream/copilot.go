package upstream

import (
	"context"

	"resty.dev/v3"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcache"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
)

const (
	defaultCopilotBaseURL = "https://api.githubcopilot.com"
	copilotIntegrationID  = "vscode-chat"
)

type CopilotLister struct {
	client *resty.Client
}

func NewCopilotLister(client *resty.Client) *CopilotLister {
	return &CopilotLister{client: client}
}

type copilotModelsResponse struct {
	Data []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Vendor string `json:"vendor"`
	} `json:"data"`
}

func (l *CopilotLister) ListModels(ctx context.Context, p provider.Provider, token string) ([]modelcache.Model, error) {
	baseURL := p.ConfigString("base_url")
	if baseURL == "" {
		baseURL = defaultCopilotBaseURL
	}

	var body copilotModelsResponse
	resp, err := l.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Copilot-Integration-Id", copilotIntegrationID).
		SetResult(&body).
		Get(joinURL(baseURL, "/models"))
	if err != nil {
		return nil, transportError(ctx, err, "copilot list models request failed")
	}
	if resp.IsError() {
		return nil, errorFromResponse(ctx, resp, "copilot list models request failed")
	}

	models := make([]modelcache.Model, 0, len(body.Data))
	for _, m := range body.Data {
		models = append(models, modelcache.Model{ID: m.ID, Name: m.Name, OwnedBy: m.Vendor})
	}
	return models, nil
}

package upstream

import (
	"context"
	"strings"
	"time"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcache"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/platformerrors"
)

const (
	TypeOpenAI           = "openai"
	TypeOpenAICompatible = "openai_compatible"
	TypeGemini           = "gemini"
	TypeAnthropic        = "anthropic"
	TypeCopilot          = "copilot"
)

var vendorBaseURLs = map[string]string{
	TypeOpenAI:    defaultOpenAIBaseURL,
	TypeGemini:    defaultGeminiBaseURL,
	TypeAnthropic: defaultAnthropicBaseURL,
	TypeCopilot:   defaultCopilotBaseURL,
}

type lister interface {
	ListModels(ctx context.Context, p provider.Provider, apiKey string) ([]modelcache.Model, error)
}

// Router picks a lister from the provider's config.type and resolves the
// credential to send.
type Router struct {
	listers      map[string]lister
	fallbackKeys map[string]string
}

// NewRouter wires the default listers. fallbackKeys maps an upstream type to
// the credential used when neither the request nor the provider carries one.
// Fallback keys are only sent to built-in providers or to the vendor's own
// endpoint, never to a base_url chosen by a user.
func NewRouter(timeout time.Duration, fallbackKeys map[string]string) *Router {
	openaiLister := NewOpenAILister(timeout)
	return &Router{
		listers: map[string]lister{
			TypeOpenAI:           openaiLister,
			TypeOpenAICompatible: openaiLister,
			TypeGemini:           NewGeminiLister(NewClient("gemini", timeout)),
			TypeAnthropic:        NewAnthropicLister(NewClient("anthropic", timeout)),
			TypeCopilot:          NewCopilotLister(NewClient("copilot", timeout)),
		},
		fallbackKeys: fallbackKeys,
	}
}

// ProviderType returns config.type, defaulting to openai_compatible for
// custom providers that only set a base_url.
func ProviderType(p provider.Provider) string {
	if t := strings.ToLower(strings.TrimSpace(p.ConfigString("type"))); t != "" {
		return t
	}
	return TypeOpenAICompatible
}

func (r *Router) ListModels(ctx context.Context, p provider.Provider, apiKey string) ([]modelcache.Model, error) {
	providerType := ProviderType(p)
	l, ok := r.listers[providerType]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "unsupported provider type: "+providerType, nil, "7a1c3e5f-0b2d-4f6a-8c9e-1d3f5a7b9c0e")
	}
	if providerType == TypeOpenAICompatible && p.ConfigString("base_url") == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "provider "+p.ID+" has no base_url", nil, "d4e6f8a0-2c4e-4a6c-9e0a-3c5e7a9c1e3a")
	}

	key := r.resolveKey(p, providerType, apiKey)
	if key == "" && providerType != TypeOpenAICompatible {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "no credential configured for provider "+p.ID, nil, "b5c7d9e1-3f5a-4b7c-8d9e-0f1a2b3c4d5e")
	}
	return l.ListModels(ctx, p, key)
}

func (r *Router) resolveKey(p provider.Provider, providerType, requestKey string) string {
	if key := strings.TrimSpace(requestKey); key != "" {
		return key
	}
	if key := strings.TrimSpace(p.ConfigString("api_key")); key != "" {
		return key
	}
	if !fallbackAllowed(p, providerType) {
		return ""
	}
	return strings.TrimSpace(r.fallbackKeys[providerType])
}

func fallbackAllowed(p provider.Provider, providerType string) bool {
	if p.Builtin {
		return true
	}
	vendorURL, ok := vendorBaseURLs[providerType]
	if !ok {
		return false
	}
	baseURL := normalizeBaseURL(p.ConfigString("base_url"))
	return baseURL == "" || baseURL == normalizeBaseURL(vendorURL)
}

func normalizeBaseURL(raw string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(raw), "/"))
}

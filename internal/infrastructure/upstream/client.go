package upstream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/logger"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/platformerrors"
)

type clientStartsAt struct{}

// NewClient returns a resty client that logs every upstream call at debug
// level. Response bodies are not logged since they may echo credentials.
func NewClient(clientName string, timeout time.Duration) *resty.Client {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		ctx := context.WithValue(r.Context(), clientStartsAt{}, time.Now())
		r.SetContext(ctx)
		return nil
	})
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		log := logger.GetLogger()
		ctx := r.Request.Context()
		startTime, _ := ctx.Value(clientStartsAt{}).(time.Time)
		requestID, _ := ctx.Value(platformerrors.RequestIDKey{}).(string)

		event := log.Debug().
			Str("request_id", requestID).
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Dur("latency", time.Since(startTime))
		if raw := r.Request.RawRequest; raw != nil {
			event = event.Str("method", raw.Method).Str("path", raw.URL.Path)
		}
		event.Msg("HTTP client request")
		return nil
	})
	return client
}

func joinURL(baseURL, path string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return path
	}
	return baseURL + "/" + strings.TrimLeft(path, "/")
}

func errorFromResponse(ctx context.Context, resp *resty.Response, message string) error {
	body := strings.TrimSpace(resp.String())
	if len(body) > 512 {
		body = body[:512]
	}
	if body == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, fmt.Sprintf("%s with status %d", message, resp.StatusCode()), nil, "6e0f1a2b-93c4-4d85-b7e6-1f2a3b4c5d60")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, fmt.Sprintf("%s with status %d: %s", message, resp.StatusCode(), body), nil, "c8d7e6f5-a4b3-4c2d-9e1f-0a9b8c7d6e5f")
}

func transportError(ctx context.Context, err error, message string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, err, "2b4d6f80-1a3c-4e5f-8b7d-9c0e1f2a3b4c")
}

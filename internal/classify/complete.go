package classify

import (
	"context"

	"github.com/ppiankov/centauri/internal/cache"
	"github.com/ppiankov/centauri/internal/llm"
	"github.com/ppiankov/centauri/internal/model"
	"github.com/ppiankov/centauri/internal/worker"
)

// completion is one cached, rate-limited model call
type completion struct {
	provider llm.Provider
	cache    cache.ResponseStore
	limiter  *worker.Limiter
	request  llm.Request
	accept   func(content string) error
}

// complete returns a cached reply when one exists, otherwise calls the provider
// and caches the reply once accept passes
func complete(ctx context.Context, c completion) (string, error) {
	payload := c.request.System + "\n" + c.request.Prompt
	key := cache.RequestKey(c.provider.Name(), payload)

	if c.cache != nil {
		if content, ok := c.cache.Lookup(key); ok {
			llm.CallLogFrom(ctx).Record(model.AICall{
				Provider: c.provider.Name(),
				Purpose:  c.request.Purpose,
				Cached:   true,
			})
			return content, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := c.limiter.Wait(ctx, c.provider.Name()); err != nil {
		return "", err
	}

	resp, err := c.provider.Complete(ctx, c.request)
	if err != nil {
		return "", err
	}
	if c.accept != nil {
		if err := c.accept(resp.Content); err != nil {
			return "", err
		}
	}

	if c.cache != nil {
		// Cache writes are best effort; concurrent identical requests are last-write-wins
		_ = c.cache.Save(key, payload, resp.Content, c.provider.Name())
	}
	return resp.Content, nil
}

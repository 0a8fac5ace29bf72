package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResponseCache stores validated raw responses keyed by request digest.
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

func cacheKey(model, system, prompt string) string {
	h := sha256.New()
	for _, part := range []string{model, system, prompt} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "visionscribe:classify:" + hex.EncodeToString(h.Sum(nil))
}

package storage

import "context"

// ObjectStore is the durable home for rendered assets. Uploads are keyed by
// {owner}/{media kind}/{unique name} and return a publicly resolvable URL.
// Provider download URLs are ephemeral and must never be persisted as the
// source of truth; only the URL returned here is recorded.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
}

package sendmoney

import (
	"context"
	"io"

	"github.com/goliatone/go-sendmoney/internal/store/filestore"
	"github.com/goliatone/go-sendmoney/internal/store/redisstore"
	"github.com/goliatone/go-sendmoney/pkg/store"
)

// NewFileStore returns a blob store writing one JSON file per key under dir.
func NewFileStore(dir string) (store.BlobStore, error) {
	return filestore.New(dir)
}

// NewRedisStore connects to a Redis server and returns a blob store over it.
// Close the returned closer to release the connection.
func NewRedisStore(ctx context.Context, addr string, db int, prefix string) (store.BlobStore, io.Closer, error) {
	s, client, err := redisstore.Dial(ctx, addr, db, redisstore.WithPrefix(prefix))
	if err != nil {
		return nil, nil, err
	}
	return s, client, nil
}

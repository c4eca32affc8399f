package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/internal/domain/model"
	"github.com/okian/tasting/pkg/logger"
	"github.com/okian/tasting/pkg/metrics"
)

// read fetches and decodes key into dst. found is false when the key is
// absent. Decode failures are reported as ErrCorrupt.
func read(ctx context.Context, store kv.Store, name, key string, dst any) (found bool, err error) {
	start := time.Now()
	data, err := store.Get(ctx, key)
	metrics.RecordPersistenceLatency(name, "get", float64(time.Since(start).Microseconds())/1000)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		metrics.RecordPersistenceError(name, "get")
		return false, &model.PersistenceError{Op: "get", Key: key, Err: err}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.RecordPersistenceError(name, "decode")
		return true, &model.PersistenceError{Op: "decode", Key: key, Err: fmt.Errorf("%w: %v", model.ErrCorrupt, err)}
	}
	return true, nil
}

// write encodes v and stores it under key.
func write(ctx context.Context, store kv.Store, name, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		metrics.RecordPersistenceError(name, "encode")
		return &model.PersistenceError{Op: "encode", Key: key, Err: err}
	}
	start := time.Now()
	err = store.Put(ctx, key, data)
	metrics.RecordPersistenceLatency(name, "put", float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordPersistenceError(name, "put")
		return &model.PersistenceError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func logFailure(ctx context.Context, l logger.Logger, msg string, err error) {
	if l == nil {
		return
	}
	l.Warn(ctx, msg, logger.Error(err))
}

package transaction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sendmoney/pkg/logging"
	"github.com/goliatone/go-sendmoney/pkg/store"
)

// DefaultKey is the store key holding the serialized history.
const DefaultKey = "requests"

var (
	// ErrNotFound is returned by Find for an unknown id.
	ErrNotFound = errors.New("transaction: record not found")
	// ErrCorruptLog is returned when the stored history cannot be decoded.
	// Append refuses to overwrite a corrupt history.
	ErrCorruptLog = errors.New("transaction: stored history is corrupt")
)

// Appender persists a record. The session depends on this interface only.
type Appender interface {
	Append(ctx context.Context, record Record) error
}

// LogOption configures a Log.
type LogOption func(*Log)

// WithKey overrides the store key.
func WithKey(key string) LogOption {
	return func(l *Log) {
		if key != "" {
			l.key = key
		}
	}
}

// WithLogger sets the logger used for append diagnostics.
func WithLogger(logger logrus.FieldLogger) LogOption {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Log is the append-only history of submitted records. Every append reads
// the whole list, adds one record and writes the whole list back.
type Log struct {
	store  store.BlobStore
	key    string
	logger logrus.FieldLogger
}

// NewLog returns a Log over blobs.
func NewLog(blobs store.BlobStore, options ...LogOption) (*Log, error) {
	if blobs == nil {
		return nil, errors.New("transaction: blob store is required")
	}
	l := &Log{store: blobs, key: DefaultKey, logger: logging.Discard()}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l, nil
}

// Append adds record to the end of the history.
func (l *Log) Append(ctx context.Context, record Record) error {
	records, err := l.List(ctx)
	if err != nil {
		return err
	}
	records = append(records, record)

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("transaction: encode history: %w", err)
	}
	if err := l.store.Put(ctx, l.key, payload); err != nil {
		return fmt.Errorf("transaction: write history: %w", err)
	}

	l.logger.WithFields(logrus.Fields{
		"id":       record.ID,
		"service":  record.ServiceName,
		"provider": record.ProviderName,
		"count":    len(records),
	}).Info("transaction appended")
	return nil
}

// List returns every stored record in append order.
func (l *Log) List(ctx context.Context) ([]Record, error) {
	payload, err := l.store.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("transaction: read history: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLog, err)
	}
	return records, nil
}

// Find returns the record with id.
func (l *Log) Find(ctx context.Context, id string) (Record, error) {
	records, err := l.List(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

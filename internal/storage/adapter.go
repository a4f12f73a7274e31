package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"richdoc/pkg/richdoc"
)

// Adapter saves and loads documents through a Slots backend. Blobs are the
// serialized JSON record, sealed when compression or encryption is enabled.
type Adapter struct {
	slots    Slots
	save     richdoc.SaveOptions
	password string
	log      *zap.Logger
}

type Option func(*Adapter)

func WithSaveOptions(opts richdoc.SaveOptions) Option {
	return func(a *Adapter) { a.save = opts }
}

// WithPassword sets the password used to open encrypted blobs. It is also
// used for sealing when encryption is enabled without its own password.
func WithPassword(password string) Option {
	return func(a *Adapter) { a.password = password }
}

func WithLogger(log *zap.Logger) Option {
	return func(a *Adapter) {
		if log != nil {
			a.log = log
		}
	}
}

func NewAdapter(slots Slots, opts ...Option) *Adapter {
	a := &Adapter{slots: slots, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	if a.save.Encryption.Enabled && a.save.Encryption.Password == "" {
		a.save.Encryption.Password = a.password
	}
	return a
}

// Save serializes doc and stores it under key, replacing any earlier save.
// The returned record is what was written before sealing.
func (a *Adapter) Save(ctx context.Context, key string, doc *richdoc.Document) (richdoc.Serialized, error) {
	rec, err := richdoc.ToSerialized(doc)
	if err != nil {
		a.log.Warn("document rejected", zap.String("key", key), zap.Error(err))
		return richdoc.Serialized{}, err
	}
	blob, err := rec.Encode(a.save)
	if err != nil {
		return richdoc.Serialized{}, err
	}
	if err := a.slots.Put(ctx, key, blob); err != nil {
		a.log.Error("save failed", zap.String("key", key), zap.Error(err))
		return richdoc.Serialized{}, fmt.Errorf("storage: save %q: %w", key, err)
	}
	a.log.Debug("saved",
		zap.String("key", key),
		zap.Int("bytes", len(blob)),
		zap.Int("paragraphs", len(rec.Paragraphs)),
		zap.Bool("compressed", a.save.Compression),
		zap.Bool("encrypted", a.save.Encryption.Enabled))
	return rec, nil
}

func (a *Adapter) Load(ctx context.Context, key string) (*richdoc.Document, error) {
	blob, err := a.slots.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	doc, err := richdoc.Decode(blob, richdoc.LoadOptions{Password: a.password})
	if err != nil {
		a.log.Warn("load failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("storage: load %q: %w", key, err)
	}
	a.log.Debug("loaded", zap.String("key", key), zap.Int("bytes", len(blob)))
	return doc, nil
}

// Inspect reports how the blob under key is wrapped without decoding it.
func (a *Adapter) Inspect(ctx context.Context, key string) (richdoc.EnvelopeInfo, error) {
	blob, err := a.slots.Get(ctx, key)
	if err != nil {
		return richdoc.EnvelopeInfo{}, err
	}
	return richdoc.Inspect(blob)
}

func (a *Adapter) Delete(ctx context.Context, key string) error {
	if err := a.slots.Delete(ctx, key); err != nil {
		return err
	}
	a.log.Debug("deleted", zap.String("key", key))
	return nil
}

func (a *Adapter) List(ctx context.Context) ([]string, error) {
	return a.slots.Keys(ctx)
}

func (a *Adapter) Close() error { return a.slots.Close() }

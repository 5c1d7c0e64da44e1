package configuration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"minimarket/config"
	"minimarket/db"
	"minimarket/logger"
	"minimarket/queries"

	"github.com/cenkalti/backoff/v4"
)

const (
	SourceStatic   = "static"
	SourceFile     = "file"
	SourceDatabase = "database"

	cacheKey      = "minimarket:configuracion"
	maxRetryDelay = 10 * time.Second
)

var ErrEmptyDocument = errors.New("No se pudo obtener la configuración")

// LoadError is returned once every database attempt has failed.
type LoadError struct {
	Attempts int
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cargando configuración tras %d intentos: %v", e.Attempts, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader fetches the descriptor document from its configured source.
type Loader struct {
	Source     string
	Path       string
	Store      db.Store
	Cache      Cache
	CacheTTL   time.Duration
	Retries    int
	RetryDelay time.Duration
	Log        logger.Logger
}

// NewLoader builds a loader from the server configuration. store and
// cache may be nil when the source does not need them.
func NewLoader(conf config.Configuration, store db.Store, cache Cache, log logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{
		Source:     conf.Descriptors.Source,
		Path:       conf.Descriptors.Path,
		Store:      store,
		Cache:      cache,
		CacheTTL:   conf.Descriptors.CacheTTL,
		Retries:    conf.Descriptors.Retries,
		RetryDelay: conf.Descriptors.RetryDelay,
		Log:        log,
	}
}

func (l *Loader) Load(ctx context.Context) (*Descriptors, error) {
	var (
		d   *Descriptors
		err error
	)
	switch l.Source {
	case "", SourceStatic:
		if l.Path != "" {
			d, err = l.fromFile()
		} else {
			d, err = Parse(embedded, "yaml", SourceStatic)
		}
	case SourceFile:
		d, err = l.fromFile()
	case SourceDatabase:
		d, err = l.fromDatabase(ctx)
	default:
		err = fmt.Errorf("origen de configuración desconocido: %q", l.Source)
	}
	if err != nil {
		return nil, err
	}

	for _, w := range d.Warnings() {
		l.log().Warnw("configuration warning", "warning", w, "source", d.Source())
	}
	for _, w := range d.Check(queries.Modules) {
		l.log().Warnw("configuration warning", "warning", w, "source", d.Source())
	}
	l.log().Infow("configuration loaded", "source", d.Source(), "modules", len(d.Modules()))
	return d, nil
}

func (l *Loader) fromFile() (*Descriptors, error) {
	if l.Path == "" {
		return nil, errors.New("descriptors.path requerido para origen file")
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("leyendo configuración %s: %w", l.Path, err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(l.Path)), ".")
	return Parse(data, format, SourceFile)
}

func (l *Loader) fromDatabase(ctx context.Context) (*Descriptors, error) {
	if l.Store == nil {
		return nil, errors.New("origen database sin conexión")
	}

	if l.Cache != nil {
		data, ok, err := l.Cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			l.log().Warnw("configuration cache unavailable", "error", err)
		case ok:
			if d, err := Parse(data, "json", SourceDatabase); err == nil {
				l.log().Debugw("configuration cache hit")
				return d, nil
			}
			l.log().Warnw("configuration cache entry discarded", "error", err)
		}
	}

	attempts := l.Retries
	if attempts <= 0 {
		attempts = 1
	}

	var (
		d       *Descriptors
		invalid error
		attempt int
	)
	op := func() error {
		attempt++
		data, err := l.query(ctx)
		if err != nil {
			l.log().Warnw("configuration query failed", "attempt", attempt, "of", attempts, "error", err)
			return err
		}
		if d, invalid = Parse(data, "json", SourceDatabase); invalid != nil {
			return backoff.Permanent(invalid)
		}
		if l.Cache != nil {
			if err := l.Cache.Set(ctx, cacheKey, data, l.CacheTTL); err != nil {
				l.log().Warnw("configuration cache write failed", "error", err)
			}
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(retryPolicy(l.RetryDelay, attempts), ctx)); err != nil {
		if invalid != nil {
			return nil, invalid
		}
		return nil, &LoadError{Attempts: attempt, Err: err}
	}
	return d, nil
}

func (l *Loader) query(ctx context.Context) ([]byte, error) {
	rows, err := l.Store.Query(ctx, queries.DescriptorDocument)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDocument
	}
	var data []byte
	switch v := rows[0]["configuracion"].(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}
	return data, nil
}

func (l *Loader) log() logger.Logger {
	if l.Log == nil {
		return logger.Nop()
	}
	return l.Log
}

// retryPolicy doubles base after every failed attempt, capped at
// maxRetryDelay, and stops after attempts tries. No jitter.
func retryPolicy(base time.Duration, attempts int) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = base
	eb.RandomizationFactor = 0
	eb.Multiplier = 2
	eb.MaxInterval = maxRetryDelay
	eb.MaxElapsedTime = 0
	eb.Reset()
	return backoff.WithMaxRetries(eb, uint64(attempts-1))
}

package connection

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go"

	"lifedashboard/services"
)

// Backends holds what the services need from the outside world.
type Backends struct {
	Store    services.DocumentStore
	Blobs    services.BlobStore
	Verifier services.TokenVerifier

	// LocalBlobDir is set when avatars are served from disk.
	LocalBlobDir string

	closers []func()
}

func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// OpenBackends connects the configured document store, blob store and token
// verifier. The Firebase app is only created when one of them needs it.
func OpenBackends(ctx context.Context, cfg Config, logger *slog.Logger) (*Backends, error) {
	b := &Backends{}
	var app *firebase.App
	firebaseApp := func() (*firebase.App, error) {
		if app != nil {
			return app, nil
		}
		var err error
		app, err = FBConnection(ctx, cfg)
		return app, err
	}

	switch cfg.StoreBackend {
	case StoreFirestore:
		fb, err := firebaseApp()
		if err != nil {
			return nil, err
		}
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("error getting Firestore client: %w", err)
		}
		b.Store = services.NewFirestoreStore(client)
	case StoreSQLite:
		store, err := services.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.Store = store
	default:
		b.Store = services.NewMemoryStore()
	}
	b.closers = append(b.closers, func() {
		if err := b.Store.Close(); err != nil {
			logger.Error("close store failed", slog.String("error", err.Error()))
		}
	})
	logger.Info("document store ready", slog.String("backend", cfg.StoreBackend))

	if cfg.StorageBucket != "" && cfg.CredentialsFile != "" {
		fb, err := firebaseApp()
		if err != nil {
			b.Close()
			return nil, err
		}
		client, err := fb.Storage(ctx)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("error getting Storage client: %w", err)
		}
		bucket, err := client.Bucket(cfg.StorageBucket)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("open bucket: %w", err)
		}
		b.Blobs = services.NewGCSBlobStore(bucket, cfg.StorageBucket)
	} else {
		b.LocalBlobDir = cfg.BlobDir
		b.Blobs = &services.LocalBlobStore{
			Dir:     cfg.BlobDir,
			BaseURL: cfg.BaseURL + "/files",
		}
	}

	switch cfg.AuthMode {
	case AuthHMAC:
		b.Verifier = services.NewHMACVerifier(cfg.JWTSecret)
	case AuthJWKS:
		v, err := services.NewJWKSVerifier(cfg.JWKSURL, cfg.JWTIssuer, cfg.JWTAudience)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, v.Close)
		b.Verifier = v
	default:
		fb, err := firebaseApp()
		if err != nil {
			b.Close()
			return nil, err
		}
		client, err := fb.Auth(ctx)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("error getting Auth client: %w", err)
		}
		b.Verifier = services.NewFirebaseVerifier(client)
	}
	logger.Info("token verifier ready", slog.String("mode", cfg.AuthMode))

	return b, nil
}

package connection

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// FBConnection initializes the Firebase app that backs Firestore, Auth and
// Cloud Storage.
func FBConnection(ctx context.Context, cfg Config) (*firebase.App, error) {
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("environment variable GOOGLE_APPLICATION_CREDENTIALS_1 is not set")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %w", err)
	}

	slog.Info("firebase app initialized", slog.String("projectId", cfg.ProjectID))
	return app, nil
}

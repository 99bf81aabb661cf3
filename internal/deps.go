package internal

import (
	"context"
	"fmt"
	"time"

	"linx/social-api/aws"
	"linx/social-api/config"
	"linx/social-api/db"
	"linx/social-api/internal/service"
	"linx/social-api/internal/store"
	"linx/social-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Store     *store.Store
	Tokens    *security.TokenIssuer
	Auth      *service.Auth
	Posts     *service.Posts
	Comments  *service.Comments
	Reactions *service.Reactions
	Uploads   *service.Uploads
}

// NewDeps connects to the database and the bucket and builds every service
func NewDeps(ctx context.Context, cfg *config.Config) (*Deps, error) {
	conn, err := db.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	s3, err := aws.NewS3(ctx, cfg.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}

	return Build(cfg, conn, s3, service.NewNotifier(cfg.Mail), nil), nil
}

// Build wires the services on top of already opened connections. A nil
// clock means the wall clock in UTC.
func Build(cfg *config.Config, conn *gorm.DB, objects service.ObjectStore, notifier service.Notifier, clock func() time.Time) *Deps {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}

	st := store.New(conn)
	tokens := security.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.TokenTTL, clock)

	return &Deps{
		Config: cfg,
		DB:     conn,
		Store:  st,
		Tokens: tokens,
		Auth: service.NewAuth(service.AuthOpts{
			Users:       st,
			Codes:       st,
			Hasher:      security.New(),
			Tokens:      tokens,
			Notifier:    notifier,
			Clock:       clock,
			FrontendURL: cfg.Host.FrontendURL,
		}),
		Posts:     service.NewPosts(conn, objects),
		Comments:  service.NewComments(conn),
		Reactions: service.NewReactions(conn),
		Uploads:   service.NewUploads(conn, objects),
	}
}

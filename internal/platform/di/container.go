package di

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	_ "github.com/lib/pq"
	"google.golang.org/api/option"

	httpin "flipmart/internal/adapters/in/http"
	"flipmart/internal/adapters/in/http/middleware"
	"flipmart/internal/adapters/out/db"
	fsrepo "flipmart/internal/adapters/out/firestore"
	"flipmart/internal/adapters/out/gcs"
	"flipmart/internal/adapters/out/mail"
	usecase "flipmart/internal/application/usecase"
	appcfg "flipmart/internal/infra/config"
	"flipmart/internal/platform/token"
)

// Container wires infrastructure clients, repositories, usecases and the
// HTTP router for the storefront API.
type Container struct {
	Router http.Handler

	fsClient  *firestore.Client
	gcsClient *storage.Client
	sqlDB     *sql.DB
}

// NewContainer builds the full dependency graph.
func NewContainer(ctx context.Context, cfg *appcfg.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("di: cfg is nil")
	}

	prj := strings.TrimSpace(cfg.GetFirestoreProjectID())
	if prj == "" {
		return nil, errors.New("di: FIRESTORE_PROJECT_ID / GCP_PROJECT_ID is empty")
	}

	var fsOpts []option.ClientOption
	if f := strings.TrimSpace(cfg.FirestoreCredentialsFile); f != "" {
		fsOpts = append(fsOpts, option.WithCredentialsFile(f))
	}

	fsClient, err := firestore.NewClient(ctx, prj, fsOpts...)
	if err != nil {
		return nil, errors.New("di: firestore client: " + err.Error())
	}

	c := &Container{fsClient: fsClient}

	// Catalog database (optional: storefront runs cart/auth without it)
	var productRepo *db.ProductRepositoryPG
	if dsn := strings.TrimSpace(cfg.PostgresDSN); dsn != "" {
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			c.Close()
			return nil, errors.New("di: postgres open: " + err.Error())
		}
		c.sqlDB = sqlDB
		productRepo = db.NewProductRepositoryPG(sqlDB)
	} else {
		log.Printf("[di] POSTGRES_DSN is empty; catalog endpoints disabled")
	}

	// Product images (optional)
	var images *gcs.ProductImageResolver
	if bucket := strings.TrimSpace(cfg.ProductImageBucket); bucket != "" {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			log.Printf("[di] WARN: storage client unavailable: %v (image urls served as stored)", err)
		} else {
			c.gcsClient = gcsClient
			images = gcs.NewProductImageResolver(gcsClient, bucket)
		}
	}

	secret, err := resolveJWTSecret(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	userRepo := fsrepo.NewUserRepositoryFS(fsClient)
	minter := token.NewMinter(secret, cfg.JWTExpiresIn)
	verifier := token.NewVerifier(secret)

	var mailer usecase.Mailer
	if key := strings.TrimSpace(cfg.SendGridAPIKey); key != "" {
		mailer = mail.NewSendGridClient(key)
	} else {
		log.Printf("[di] SENDGRID_API_KEY is empty; welcome mail disabled")
	}

	authUC := usecase.NewAuthUsecase(userRepo, minter, mailer, cfg.MailFrom)
	cartUC := usecase.NewCartUsecase(userRepo)

	deps := httpin.RouterDeps{
		AuthUC: authUC,
		CartUC: cartUC,
		UserAuth: &middleware.UserAuthMiddleware{
			Verifier: verifier,
			Lookup:   authUC,
		},
	}
	if productRepo != nil {
		deps.ProductRepo = productRepo
	}
	if images != nil {
		deps.Images = images
	}

	c.Router = middleware.CORS(cfg.AllowedOrigin)(httpin.NewRouter(deps))
	return c, nil
}

// Close releases infrastructure clients.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.fsClient != nil {
		_ = c.fsClient.Close()
	}
	if c.gcsClient != nil {
		_ = c.gcsClient.Close()
	}
	if c.sqlDB != nil {
		_ = c.sqlDB.Close()
	}
}

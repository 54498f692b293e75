package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/layer-3/urllogin/adapters/bindings"
	"github.com/layer-3/urllogin/adapters/codegen"
	"github.com/layer-3/urllogin/adapters/events"
	"github.com/layer-3/urllogin/adapters/pending"
	"github.com/layer-3/urllogin/adapters/store"
	"github.com/layer-3/urllogin/adapters/tokenizer"
	"github.com/layer-3/urllogin/internal/clock"
	"github.com/layer-3/urllogin/internal/config"
	"github.com/layer-3/urllogin/internal/logging"
	"github.com/layer-3/urllogin/ports"
	"github.com/layer-3/urllogin/service"
	"github.com/layer-3/urllogin/transport/chat"
	transport "github.com/layer-3/urllogin/transport/http"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load(os.Getenv("URLLOGIN_CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogger := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)
	logger := logging.NewSlogLogger(slogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	privateKey, err := loadSigningKey(cfg.JWT.PrivateKey)
	if err != nil {
		log.Fatalf("Failed to load signing key: %v", err)
	}

	clk := clock.New()
	wmLogger := watermill.NewSlogLogger(slogger)

	// Redis backs token revocation and events; without it everything stays in process
	var (
		revocations ports.Store
		publisher   message.Publisher
	)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		publisher, err = redisstream.NewPublisher(redisstream.PublisherConfig{Client: redisClient}, wmLogger)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
		revocations = store.NewRedisStore(redisClient)
	} else {
		logger.Warn(ctx, "redis.url not set, using in-memory revocation store and events")
		publisher = gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
		revocations = store.NewMemoryStore(clk)
	}
	defer publisher.Close()

	var bindingRepo ports.BindingRepository
	if cfg.DB.URL != "" {
		db, err := sql.Open("pgx", cfg.DB.URL)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("Failed to reach database: %v", err)
		}
		bindingRepo = bindings.NewPostgresRepository(db)
	} else {
		logger.Warn(ctx, "database.url not set, binding lookups will find nothing")
		bindingRepo = bindings.NewMemoryRepository()
	}

	eventPub := events.NewWatermillPublisher(publisher)
	authService := service.NewAuthService(tokenizer.NewJWTTokenizer(privateKey), revocations, eventPub, clk, logger)

	pendingStore := pending.NewMemoryStore(cfg.LinkTimeout())
	go pendingStore.RunSweeper(ctx, cfg.SweepInterval(), clk.Now)

	linkService := service.NewLinkService(service.LinkConfig{
		DirectOnly:  cfg.Link.DirectOnly,
		SelfURL:     cfg.Link.SelfURL,
		ServerURL:   cfg.Server.SelfURL,
		ObservedURL: cfg.ObservedURL(),
		JumpURL:     cfg.Link.JumpURL,
	}, pendingStore, codegen.NewRandom(), authService, eventPub, clk, logger)

	handlers := transport.NewHandlers(
		authService,
		linkService,
		service.NewBindingService(bindingRepo),
		chat.NewRequestLoginLink(linkService),
		logger,
	)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           transport.SetupRouter(handlers, cfg.Chat.Secret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server started", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "server shutdown failed", "err", err)
	}
}

// loadSigningKey parses a PEM encoded EC key, or generates one when pemKey is empty
func loadSigningKey(pemKey string) (*ecdsa.PrivateKey, error) {
	if pemKey == "" {
		// Sessions do not survive a restart with a generated key
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	}
	return jwt.ParseECPrivateKeyFromPEM([]byte(pemKey))
}

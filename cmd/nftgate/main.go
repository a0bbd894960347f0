package main

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/layer-3/nftgate/adapters/events"
	"github.com/layer-3/nftgate/adapters/indexer"
	"github.com/layer-3/nftgate/adapters/ledger"
	"github.com/layer-3/nftgate/adapters/repo"
	"github.com/layer-3/nftgate/adapters/store"
	"github.com/layer-3/nftgate/adapters/tokenizer"
	"github.com/layer-3/nftgate/internal/logutil"
	"github.com/layer-3/nftgate/ports"
	"github.com/layer-3/nftgate/service"
	transport "github.com/layer-3/nftgate/transport/http"
)

type config struct {
	ListenAddr      string `env:"LISTEN_ADDR" envDefault:":9000"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	SessionSecret   string `env:"SESSION_SECRET,required"`
	RPCURL          string `env:"EVM_RPC_URL"`
	ContractAddress string `env:"NFT_CONTRACT_ADDRESS"`
	IndexerBaseURL  string `env:"INDEXER_BASE_URL" envDefault:"https://sentry.explorer.grpc-web.injective.network"`
	RedisURL        string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	DatabasePath    string `env:"DATABASE_PATH" envDefault:"nftgate.db"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fallback := logutil.New("info")
		fallback.Fatal().Err(err).Msg("failed to parse configuration")
	}

	logger := logutil.New(cfg.LogLevel)

	// Redis backs both the session TTL store and the event stream.
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse redis url")
	}
	redisClient := redis.NewClient(opts)

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create event publisher")
	}
	eventPub := events.NewWatermillPublisher(publisher)

	db, err := repo.NewDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := repo.RunMigrations(db.Writer); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	jwtTokenizer, err := tokenizer.NewJWTTokenizer([]byte(cfg.SessionSecret))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create tokenizer")
	}

	sessionStore := store.NewRedisStore(redisClient)
	sessions := service.NewSessionService(jwtTokenizer, sessionStore, eventPub, logger)

	// A missing RPC endpoint or contract address leaves the oracle nil-backed;
	// the first ownership check then fails loudly instead of reporting a false
	// "not held".
	var contract ports.TokenContract
	if cfg.RPCURL != "" && cfg.ContractAddress != "" {
		reader, err := ledger.NewERC721Reader(cfg.RPCURL, common.HexToAddress(cfg.ContractAddress))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create ledger reader")
		}
		defer reader.Close()
		contract = reader
	} else {
		logger.Warn().Msg("EVM_RPC_URL or NFT_CONTRACT_ADDRESS not set, ownership checks will fail")
	}

	oracle := service.NewOwnershipService(contract, indexer.NewClient(cfg.IndexerBaseURL), logger)

	identities := service.NewIdentityService(repo.NewIdentityRepo(db), oracle, sessions, eventPub, logger)

	router := transport.SetupRouter(identities, sessions)

	logger.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

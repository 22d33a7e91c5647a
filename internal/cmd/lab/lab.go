// Package lab wires configuration and startup for the lab service command.
package lab

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	platformcmd "github.com/sanjayfuloria/simulation-game/internal/platform/cmd"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/app"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/storage/sqlite"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/token"
)

// Config holds lab command configuration.
type Config struct {
	Addr        string        `env:"OPSLAB_ADDR" envDefault:":8000"`
	DBPath      string        `env:"OPSLAB_DB_PATH" envDefault:"lab.db"`
	TokenSecret string        `env:"OPSLAB_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"OPSLAB_TOKEN_TTL" envDefault:"24h"`
}

// ParseConfig loads env defaults and then parses flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The lab HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the lab SQLite database")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Shared secret for session tokens")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Session token lifetime")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the lab service and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return errors.New("token secret is required")
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	signer, err := token.NewSigner([]byte(cfg.TokenSecret), cfg.TokenTTL, nil)
	if err != nil {
		return fmt.Errorf("new token signer: %w", err)
	}

	server, err := app.New(store, signer)
	if err != nil {
		return fmt.Errorf("new lab server: %w", err)
	}

	log.Printf("lab listening on %s", cfg.Addr)
	return server.Serve(ctx, cfg.Addr)
}

package docforgesdk

import (
	"context"
	"strings"
	"sync"

	repoapp "github.com/osvaldoandrade/docforge/internal/app/repo"
	"github.com/osvaldoandrade/docforge/internal/domain"
	"github.com/osvaldoandrade/docforge/internal/infra/config"
	"github.com/osvaldoandrade/docforge/internal/infra/gitrepo"
	"github.com/osvaldoandrade/docforge/internal/infra/sqlitejournal"
	"github.com/osvaldoandrade/docforge/internal/platform"
)

// Client runs prompts over source trees with the services of one
// configuration folder.
type Client struct {
	cfg      Config
	settings domain.Config

	mu      sync.Mutex
	journal *sqlitejournal.Store
	closed  bool
}

// New loads the configuration folder without opening the journal.
func New(ctx context.Context, cfg Config) (*Client, error) {
	normalized, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(normalized.GitURL) != "" {
		service := repoapp.NewSyncService(gitrepo.NewStore())
		if _, err := service.Sync(ctx, normalized.GitURL, normalized.ConfigDir); err != nil {
			return nil, err
		}
	}
	settings, err := config.NewLoader(platform.Component(normalized.Logger, "config")).Load(ctx, normalized.ConfigDir)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: normalized, settings: settings}, nil
}

// Open creates a client and opens the run journal when a path is configured.
func Open(ctx context.Context, cfg Config) (*Client, error) {
	client, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(client.cfg.Journal.Path) == "" {
		return client, nil
	}
	journal, err := sqlitejournal.OpenWithOptions(client.cfg.Journal.Path, sqlitejournal.OpenOptions{Fast: client.cfg.Journal.Fast})
	if err != nil {
		return nil, err
	}
	client.journal = journal
	return client, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	journal := c.journal
	c.journal = nil
	c.closed = true
	c.mu.Unlock()

	if journal != nil {
		return journal.Close()
	}
	return nil
}

// Services lists the configured service profile names.
func (c *Client) Services() []string {
	return c.settings.ServiceNames()
}

func (c *Client) ConfigDir() string {
	return c.cfg.ConfigDir
}

func (c *Client) ensureOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

func (c *Client) ensureJournal() (*sqlitejournal.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	if c.journal == nil {
		return nil, ErrJournalNotOpen
	}
	return c.journal, nil
}

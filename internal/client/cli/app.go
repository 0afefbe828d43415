package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/client/client"
	"github.com/dmitrijs2005/taskdesk/internal/client/config"
	"github.com/dmitrijs2005/taskdesk/internal/client/services"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer

	mu      sync.Mutex
	session *services.Session
	mode    Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing session store: %w", err)
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, c.RetryAttempts)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAuthService(apiClient, db)

	return &App{
		config:      c,
		authService: as,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	if a.db != nil {
		defer a.db.Close()
	}
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session != nil
}

func (a *App) setSession(s *services.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = s
}

func (a *App) currentSession() *services.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(pingCtx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

package docker

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// Compose drives the external docker compose CLI for one instance
// directory. No compose API dependency; the CLI is the stable surface.
type Compose struct {
	dir string
}

func New(dir string) *Compose {
	return &Compose{dir: dir}
}

// Up builds and starts the containers in detached mode.
func (c *Compose) Up(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "docker", "compose", "up", "-d", "--build")
	cmd.Dir = c.dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker compose up: %w", err)
	}
	return nil
}

// Down stops the containers and removes their volumes.
func (c *Compose) Down(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "docker", "compose", "down", "-v")
	cmd.Dir = c.dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker compose down: %w", err)
	}
	return nil
}

// RefreshModules reloads the module list inside the running odoo
// container. Best effort: a fresh database may not exist yet.
func (c *Compose) RefreshModules(ctx context.Context) {
	cmd := exec.CommandContext(ctx, "docker", "compose", "exec", "-T",
		"odoo", "odoo", "-d", "postgres", "--stop-after-init", "-u", "base")
	cmd.Dir = c.dir
	_ = cmd.Run()
}

// WaitReady probes the web port and the database concurrently until both
// answer or the deadline passes.
func (c *Compose) WaitReady(ctx context.Context, port int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.waitWeb(gctx, port)
	})
	g.Go(func() error {
		return c.waitDB(gctx)
	})

	return g.Wait()
}

func (c *Compose) waitWeb(ctx context.Context, port int) error {
	url := fmt.Sprintf("http://localhost:%d/web/login", port)
	client := &http.Client{Timeout: 5 * time.Second}

	for {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode < 500 {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("odoo did not answer on port %d: %w", port, ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Compose) waitDB(ctx context.Context) error {
	for {
		cmd := exec.CommandContext(ctx, "docker", "compose", "exec", "-T",
			"db", "pg_isready", "-U", "odoo")
		cmd.Dir = c.dir
		if err := cmd.Run(); err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("database not ready: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Arthurvroum/odoo-ci/internal/cache"
	"github.com/Arthurvroum/odoo-ci/internal/compose"
	"github.com/Arthurvroum/odoo-ci/internal/config"
	"github.com/Arthurvroum/odoo-ci/internal/domain"
	"github.com/Arthurvroum/odoo-ci/internal/enterprise"
	"github.com/Arthurvroum/odoo-ci/internal/extractor"
	"github.com/Arthurvroum/odoo-ci/internal/fetcher"
	"github.com/Arthurvroum/odoo-ci/internal/resolver"
	"github.com/Arthurvroum/odoo-ci/internal/state"
)

func Execute() error {
	rootCmd := &cobra.Command{Use: "odoo-ci"}
	rootCmd.AddCommand(
		newNewCmd(),
		newUpCmd(),
		newListCmd(),
		newRemoveCmd(),
		newClearCmd(),
		newVersionCmd(),
	)
	return rootCmd.Execute()
}

func newGenerator() (*compose.Generator, *config.Config, domain.State, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		return nil, nil, nil, err
	}

	mgr := enterprise.New(
		resolver.New(30*time.Second),
		fetcher.New(time.Duration(cfg.FetchTimeout)*time.Minute),
		c,
		extractor.NewTar(),
		enterpriseEvents(),
	)

	gen := compose.NewGenerator(cfg.OutputDir, mgr)
	gen.Warn = func(msg string) {
		fmt.Printf("%s %s\n", yellow("!"), msg)
	}

	st, err := state.New(cfg.StateFile)
	if err != nil {
		return nil, nil, nil, err
	}

	return gen, cfg, st, nil
}

func newState() (*config.Config, domain.State, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	st, err := state.New(cfg.StateFile)
	if err != nil {
		return nil, nil, err
	}

	return cfg, st, nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Arthurvroum/odoo-ci/internal/docker"
	"github.com/Arthurvroum/odoo-ci/internal/domain"
)

func newNewCmd() *cobra.Command {
	var (
		version    string
		edition    string
		port       int
		addonsPath string
		token      string
		build      bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a docker-compose instance for an Odoo version",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, cfg, st, err := newGenerator()
			if err != nil {
				return err
			}
			defer st.Close()

			if port == 0 {
				port = cfg.DefaultPort
			}

			ed := domain.Edition(strings.ToLower(edition))
			if ed != domain.Community && ed != domain.Enterprise {
				return fmt.Errorf("unknown edition %q (expected community or enterprise)", edition)
			}

			inst, err := gen.Generate(cmd.Context(), domain.Request{
				Version:         version,
				Edition:         ed,
				Port:            port,
				AddonsPath:      addonsPath,
				EnterpriseToken: token,
			})
			if err != nil {
				fmt.Printf("%s %v\n", red("✗"), err)
				if ed == domain.Enterprise {
					fmt.Printf("%s download Odoo Enterprise manually from odoo.com and pass --addons-path\n", dim("hint:"))
				}
				return fmt.Errorf("generation failed")
			}

			if err := st.Add(inst); err != nil {
				return err
			}

			fmt.Printf("%s %s\n  %s %s\n  %s http://localhost:%d\n",
				green("✓"), bold(inst.Name),
				cyan("path:"), inst.Path,
				cyan("url:"), inst.Port)

			if build {
				return startInstance(cmd, inst)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Odoo version (e.g. 18)")
	cmd.Flags().StringVar(&edition, "edition", "community", "Odoo edition (community or enterprise)")
	cmd.Flags().IntVar(&port, "port", 0, "Port to expose")
	cmd.Flags().StringVar(&addonsPath, "addons-path", "", "Path to external or pre-downloaded enterprise addons")
	cmd.Flags().StringVar(&token, "enterprise-token", "", "Access token for the enterprise edition")
	cmd.Flags().BoolVar(&build, "build", false, "Build and start the containers after generation")
	cmd.MarkFlagRequired("version")
	return cmd
}

func startInstance(cmd *cobra.Command, inst *domain.Instance) error {
	ctx := cmd.Context()
	dc := docker.New(inst.Path)

	if err := dc.Up(ctx); err != nil {
		return err
	}

	stop := withSpinner(ctx, "Waiting for containers...")
	dc.RefreshModules(ctx)
	err := dc.WaitReady(ctx, inst.Port, waitReadyTimeout)
	stop()
	if err != nil {
		fmt.Printf("%s %v\n", yellow("!"), err)
		return nil
	}

	fmt.Printf("%s Odoo is up\n  %s http://localhost:%d\n  %s admin / admin\n",
		green("✓"),
		cyan("url:"), inst.Port,
		cyan("credentials:"))
	return nil
}

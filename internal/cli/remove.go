package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Arthurvroum/odoo-ci/internal/docker"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Stop and delete a generated instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := newState()
			if err != nil {
				return err
			}
			defer st.Close()

			inst, err := st.Get(args[0])
			if err != nil {
				return err
			}

			// Best effort: the containers may never have been started.
			if _, statErr := os.Stat(inst.Path); statErr == nil {
				docker.New(inst.Path).Down(cmd.Context())
			}

			if err := os.RemoveAll(inst.Path); err != nil {
				return err
			}

			if err := st.Remove(inst.Name); err != nil {
				return err
			}

			fmt.Printf("%s %s removed\n", green("✓"), bold(inst.Name))
			return nil
		},
	}
}

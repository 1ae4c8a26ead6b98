package cli

import (
	"time"

	"github.com/spf13/cobra"
)

const waitReadyTimeout = 2 * time.Minute

func newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up <name>",
		Short: "Build and start a generated instance",
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

			return startInstance(cmd, inst)
		},
	}
}

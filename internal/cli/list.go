package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List generated instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := newState()
			if err != nil {
				return err
			}
			defer st.Close()

			instances, err := st.List()
			if err != nil {
				return err
			}

			if len(instances) == 0 {
				fmt.Printf("\n%s No instances generated\n", dim("○"))
				return nil
			}

			fmt.Printf("Generated instances:\n\n")
			for _, inst := range instances {
				fmt.Printf(" %s  %s  %s\n",
					bold(inst.Name),
					dim(fmt.Sprintf("port %d", inst.Port)),
					dim(inst.Path))
			}

			return nil
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/knn/codec"
	"github.com/hupe1980/knn/dataset"
)

func newCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the manifest of the latest published run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}

			m, err := dataset.Current(ctx, store)
			if err != nil {
				return err
			}

			data, err := codec.Default.Marshal(m)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
}

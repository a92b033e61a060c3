package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/Trazabilidad-api/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones SQL embebidas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		for _, name := range applied {
			log.Info().Str("file", name).Msg("migración aplicada")
		}
		return nil
	},
}

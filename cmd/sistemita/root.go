package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/sistemita-api/internal/application/billing"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sistemita-api/pkg/config"
	"github.com/jhoicas/sistemita-api/pkg/logger"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sistemita",
		Short:         "Tareas de mantenimiento del sistema contable",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newSeedMethodsCmd(), newImportCmd())
	return root
}

// env carga configuración, logger y pool para un subcomando.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Output: os.Stderr})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

func (e *env) Close() {
	e.pool.Close()
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()
			applied, err := postgres.Migrate(cmd.Context(), e.pool)
			if err != nil {
				return err
			}
			e.log.Info().Strs("aplicadas", applied).Msg("migraciones")
			fmt.Fprintf(cmd.OutOrStdout(), "%d migraciones aplicadas\n", len(applied))
			return nil
		},
	}
}

func newSeedMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-medios [nombre...]",
		Short: "Carga los medios de pago por defecto (o los indicados)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()
			names := billing.DefaultPaymentMethods
			if len(args) > 0 {
				names = args
			}
			uc := billing.NewPaymentMethodUseCase(postgres.NewPaymentMethodRepository(e.pool))
			n, err := uc.Seed(cmd.Context(), names)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d medios de pago creados\n", n)
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "import-facturas <archivo.csv>",
		Short: "Importa comprobantes desde el CSV de Mis Comprobantes de AFIP",
		Example: `  sistemita import-facturas emitidos.csv
  sistemita import-facturas --tipo proveedor recibidos.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := entity.Kind(kind)
			if !k.Valid() {
				return fmt.Errorf("--tipo debe ser cliente o proveedor")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()
			report, err := billing.NewAFIPImporter(postgres.NewTxRunner(e.pool), e.log).Import(cmd.Context(), k, f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d facturas creadas, %d omitidas\n", report.Created, len(report.Skipped))
			for _, s := range report.Skipped {
				fmt.Fprintf(out, "  fila %d %s: %s\n", s.Row, s.Number, s.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "tipo", string(entity.KindCliente), "lado del libro: cliente (emitidos) o proveedor (recibidos)")
	return cmd
}

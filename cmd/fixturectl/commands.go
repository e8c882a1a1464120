package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/dbfixture/component"
	"github.com/kbukum/dbfixture/fixture"
	"github.com/kbukum/dbfixture/logger"
	"github.com/kbukum/dbfixture/observability"
	"github.com/kbukum/dbfixture/version"
)

func newApplyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Execute the setup batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				f, err := fixture.New(ctx, a.exec, a.source(), a.fixtureOptions()...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d setup statements to %s\n",
					len(a.set.Setup), f.Name())
				return nil
			})
		},
	}
}

// revert runs the teardown batch without a prior insert in this process,
// so it goes to the executor directly.
func newRevertCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revert",
		Short: "Execute the teardown batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				ctx, span := observability.StartSpan(ctx, observability.SpanTeardown)
				start := time.Now()
				err := a.exec.Execute(ctx, a.cfg.Database.DSN, a.set.Teardown)
				observability.EndSpan(span, err)

				status := "ok"
				if err != nil {
					status = "error"
				}
				a.metrics.RecordBatch(ctx, a.cfg.Name, string(fixture.BatchTeardown), status,
					len(a.set.Teardown), time.Since(start))
				if err != nil {
					return err
				}

				a.log.Info("Fixtures removed", logger.Fields(
					logger.FieldBatch, string(fixture.BatchTeardown),
					logger.FieldStatements, len(a.set.Teardown),
				))
				fmt.Fprintf(cmd.OutOrStdout(), "reverted %d teardown statements\n", len(a.set.Teardown))
				return nil
			})
		},
	}
}

// verify runs the whole fixture lifecycle through a component registry.
func newVerifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Insert, check and dispose the fixtures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				f, err := fixture.New(ctx, a.exec, a.source(), a.fixtureOptions(fixture.WithoutAutoInsert())...)
				if err != nil {
					return err
				}

				registry := component.NewRegistry(a.log)
				if err := registry.Register(f); err != nil {
					return err
				}

				if err := registry.StartAll(ctx); err != nil {
					return fmt.Errorf("inserting fixtures: %w", err)
				}

				out := cmd.OutOrStdout()
				for _, h := range registry.HealthAll(ctx) {
					fmt.Fprintf(out, "%s: %s\n", h.Name, h.Status)
				}
				healthy := registry.Healthy(ctx)

				if err := registry.StopAll(ctx); err != nil {
					return fmt.Errorf("removing fixtures: %w", err)
				}
				if !healthy {
					return fmt.Errorf("fixture %s did not report healthy", f.Name())
				}

				d := f.Describe()
				fmt.Fprintf(out, "verified %s (%s)\n", d.Name, d.Details)
				return nil
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the setup and teardown batches in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(_ context.Context, a *app) error {
				out := cmd.OutOrStdout()
				printBatch := func(batch fixture.Batch, statements []string) {
					fmt.Fprintf(out, "%s (%d):\n", batch, len(statements))
					for i, stmt := range statements {
						fmt.Fprintf(out, "  [%d] %s\n", i, stmt)
					}
				}
				printBatch(fixture.BatchSetup, a.set.Setup)
				printBatch(fixture.BatchTeardown, a.set.Teardown)
				return nil
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), serviceName, version.String())
		},
	}
}

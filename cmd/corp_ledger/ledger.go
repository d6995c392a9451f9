package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/SscSPs/corp_ledger/internal/utils/accounting"
	"github.com/spf13/cobra"
)

// iskPrecision is the number of decimals shown for values.
const iskPrecision = 2

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func syncCommand() *cobra.Command {
	var appraise, rebuild bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull organization activity from the upstream API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if a.services.Sync == nil {
					return errors.New("upstream synchronization is not configured")
				}
				summary, err := a.services.Sync.SyncAll(ctx)
				if err != nil {
					return err
				}
				if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}

				if appraise {
					if err := appraiseRun(ctx, cmd.OutOrStdout(), a); err != nil {
						return err
					}
				}
				if rebuild {
					return rebuildRun(ctx, cmd.OutOrStdout(), a)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&appraise, "appraise", false, "appraise pending contracts after syncing")
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "rebuild the flow ledger after syncing")
	return cmd
}

func appraiseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "appraise",
		Short: "Appraise finished contracts that have no value yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return appraiseRun(ctx, cmd.OutOrStdout(), a)
			})
		},
	}
}

func appraiseRun(ctx context.Context, w io.Writer, a *app) error {
	summary, err := a.services.Appraisal.AppraisePending(ctx)
	if err != nil {
		return err
	}
	return writeJSON(w, summary)
}

func rebuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Derive the flow ledger again from the activity tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return rebuildRun(ctx, cmd.OutOrStdout(), a)
			})
		},
	}
}

func rebuildRun(ctx context.Context, w io.Writer, a *app) error {
	result, err := a.services.Ledger.Rebuild(ctx)
	if err != nil {
		return err
	}
	return writeJSON(w, result)
}

func dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show organization totals and ledger freshness",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				totals, err := a.services.Ledger.Totals(ctx)
				if err != nil {
					return err
				}
				status, err := a.services.Ledger.Status(ctx)
				if err != nil {
					return err
				}
				return printDashboard(cmd.OutOrStdout(), totals, status)
			})
		},
	}
}

func printDashboard(out io.Writer, totals *domain.FlowTotals, status *domain.LedgerStatus) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total in\t%s\n", accounting.FormatWithPrecision(totals.TotalIn, iskPrecision))
	fmt.Fprintf(w, "Total out\t%s\n", accounting.FormatWithPrecision(totals.TotalOut, iskPrecision))
	fmt.Fprintf(w, "Net\t%s\n", accounting.FormatWithPrecision(totals.Net, iskPrecision))
	fmt.Fprintf(w, "Shares\t%s (unit %s)\n",
		totals.Shares.StringFixed(4),
		accounting.FormatWithPrecision(totals.ShareUnitValue, 0))

	ledger := string(status.State)
	if status.LastRebuild != nil {
		ledger += ", rebuilt " + status.LastRebuild.RebuiltAt.Format(time.RFC3339)
	} else {
		ledger += ", never rebuilt"
	}
	fmt.Fprintf(w, "Ledger\t%s\n", ledger)
	return w.Flush()
}

func membersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List each member's net contribution, largest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				members, err := a.services.Ledger.MemberNets(ctx)
				if err != nil {
					return err
				}
				return printMembers(cmd.OutOrStdout(), members)
			})
		},
	}
}

func printMembers(out io.Writer, members []domain.MemberNet) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "MEMBER\tIN\tOUT\tNET\tSHARES\t")
	for _, m := range members {
		name := m.Name
		if name == "" {
			name = domain.NameKindCharacter.FallbackName(m.MemberID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			name,
			accounting.FormatWithPrecision(m.In, iskPrecision),
			accounting.FormatWithPrecision(m.Out, iskPrecision),
			accounting.FormatWithPrecision(m.Net, iskPrecision),
			m.Shares.StringFixed(4),
		)
	}
	return w.Flush()
}

func recentCommand() *cobra.Command {
	var (
		limit     int
		nextToken string
	)
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent flows, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.New("--limit must not be negative")
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				var token *string
				if nextToken != "" {
					token = &nextToken
				}
				flows, next, err := a.services.Ledger.Recent(ctx, limit, token)
				if err != nil {
					return err
				}
				if err := printFlows(cmd.OutOrStdout(), flows); err != nil {
					return err
				}
				if next != nil {
					slog.Info("More flows available", slog.String("next_token", *next))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of flows, 0 for the configured default")
	cmd.Flags().StringVar(&nextToken, "next-token", "", "continue from a previous page")
	return cmd
}

func printFlows(out io.Writer, flows []domain.FlowRecord) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tMEMBER\tDIR\tSOURCE\tVALUE\tNOTE")
	for _, f := range flows {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			f.CreatedAt.Format(time.RFC3339),
			f.MemberID,
			f.Direction,
			f.Source,
			accounting.FormatWithPrecision(f.Value, iskPrecision),
			f.Note,
		)
	}
	return w.Flush()
}

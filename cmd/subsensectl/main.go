// Command subsensectl - консольный клиент API подписок.
//
// Адрес API и токен берутся из флагов или переменных окружения SUBSENSE_API_URL
// и SUBSENSE_TOKEN; перед запуском подгружается .env, если он есть.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/subsense/internal/client"
	"github.com/magabrotheeeer/subsense/internal/dashboard"
	"github.com/magabrotheeeer/subsense/internal/grpc/health"
	"github.com/magabrotheeeer/subsense/internal/lib/jwt"
	"github.com/magabrotheeeer/subsense/internal/models"
)

type options struct {
	apiURL  string
	token   string
	timeout time.Duration
}

func (o *options) client() *client.Client {
	return client.New(o.apiURL, o.token, o.timeout)
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "subsensectl",
		Short:        "Command line client for the subscriptions API",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("SUBSENSE_API_URL", "http://localhost:8080"), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("SUBSENSE_TOKEN"), "session token")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")

	cmd.AddCommand(
		newListCmd(opts),
		newAddCmd(opts),
		newSummaryCmd(opts),
		newDeactivateCmd(opts),
		newExportCmd(opts),
		newHealthCmd(),
		newDevTokenCmd(),
	)
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subscriptions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			board := dashboard.NewBoard(opts.client())
			subs, err := board.Refresh(cmd.Context()).Unwrap()
			if err != nil {
				return err
			}
			printSubscriptions(cmd.OutOrStdout(), subs)
			return nil
		},
	}
}

func newAddCmd(opts *options) *cobra.Command {
	draft := dashboard.NewDraft()
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a subscription",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := opts.client()
			board := dashboard.NewBoard(api)
			form := dashboard.NewForm(api, board)
			sub, err := form.Submit(cmd.Context(), draft).Unwrap()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s %.2f %s)\n", sub.ID, sub.Name, sub.Cost, sub.Currency)
			return nil
		},
	}
	cmd.Flags().StringVar(&draft.Name, "name", "", "service name")
	cmd.Flags().StringVar(&draft.Cost, "cost", "", "cost per billing period")
	cmd.Flags().StringVar(&draft.BillingCycle, "cycle", draft.BillingCycle, "billing cycle: weekly, monthly or yearly")
	cmd.Flags().StringVar(&draft.NextPayment, "next", "", "next payment date, YYYY-MM-DD")
	cmd.Flags().StringVar(&draft.Category, "category", draft.Category, "category")
	cmd.Flags().StringVar(&draft.Description, "description", "", "optional description")
	return cmd
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show dashboard metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := opts.client().Summary(cmd.Context()).Unwrap()
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}
}

func newDeactivateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Mark a subscription inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := opts.client().Deactivate(cmd.Context(), args[0]).Unwrap()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deactivated %s (%s)\n", sub.ID, sub.Name)
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download subscriptions as an XLSX workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := opts.client().Export(cmd.Context()).Unwrap()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "subscriptions.xlsx", "output file")
	return cmd
}

func newHealthCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Query the gRPC health service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := health.NewClient(addr)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			status, err := c.Check(ctx, health.ServiceName)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "grpc", envOr("SUBSENSE_GRPC_ADDRESS", "localhost:9090"), "gRPC health address")
	return cmd
}

func newDevTokenCmd() *cobra.Command {
	var (
		secret, issuer, email string
		ttl                   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "dev-token <external-id>",
		Short: "Mint a session token for local development",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("secret is required: pass --secret or set SUBSENSE_IDENTITY_SECRET")
			}
			token, err := jwt.NewJWTMaker(secret, ttl, issuer).GenerateToken(args[0], email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("SUBSENSE_IDENTITY_SECRET"), "identity signing secret")
	cmd.Flags().StringVar(&issuer, "issuer", os.Getenv("SUBSENSE_IDENTITY_ISSUER"), "token issuer")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func printSubscriptions(w io.Writer, subs []models.Subscription) {
	if len(subs) == 0 {
		fmt.Fprintln(w, "no subscriptions")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOST\tCYCLE\tNEXT PAYMENT\tCATEGORY\tACTIVE")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%.2f %s\t%s\t%s\t%s\t%t\n",
			s.ID, s.Name, s.Cost, s.Currency, s.BillingCycle,
			s.NextPayment.Format(time.DateOnly), s.Category, s.IsActive)
	}
	_ = tw.Flush()
}

func printSummary(w io.Writer, sum models.Summary) {
	fmt.Fprintf(w, "Monthly total:            %.2f\n", sum.MonthlyTotal)
	fmt.Fprintf(w, "Active subscriptions:     %d\n", sum.ActiveCount)
	fmt.Fprintf(w, "Yearly projection:        %.2f\n", sum.YearlyProjection)
	fmt.Fprintf(w, "Normalized monthly total: %.2f\n", sum.NormalizedMonthlyTotal)
	for _, c := range sum.ByCategory {
		fmt.Fprintf(w, "  %-18s %8.2f (%d)\n", c.Category, c.Total, c.Count)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"resolveit/internal/lifecycle"
	"resolveit/internal/policy"
	"resolveit/internal/summary"
	"resolveit/internal/telegram"
)

// ReportsCmd returns the reports command group. Every subcommand is
// admin only; the backend enforces it and the policy gate mirrors it so
// the failure is immediate and local.
func ReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reports",
		Aliases: []string{"report"},
		Short:   "Generate, export and chart complaint reports (admin)",
	}

	cmd.AddCommand(reportGenerateCmd())
	cmd.AddCommand(reportExportCmd())
	cmd.AddCommand(reportChartCmd())
	cmd.AddCommand(reportSummaryCmd())

	return cmd
}

func reportGenerateCmd() *cobra.Command {
	var from, to string
	var categories []string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a complaint report for a date range",
		Long: `Build a complaint report for a date range.

Dates are YYYY-MM-DD. Omitted filters mean "everything".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			sess, err := requireSession(store)
			if err != nil {
				return err
			}
			if res := policy.CanViewReports(viewerFrom(sess)); !res.Allowed {
				return res.Error()
			}

			report, err := client.GenerateReport(cmd.Context(), from, to, categories)
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			fmt.Println(bold.Sprint("Complaint Report"))
			if from != "" || to != "" {
				fmt.Printf("Period:          %s to %s\n", orAll(from), orAll(to))
			}
			if len(categories) > 0 {
				fmt.Printf("Categories:      %s\n", strings.Join(categories, ", "))
			}
			fmt.Printf("Total:           %d\n", report.TotalComplaints)
			fmt.Printf("Resolved:        %d (%d%%)\n", report.ResolvedComplaints, report.ResolutionRate)
			fmt.Printf("Pending:         %d\n", report.PendingComplaints)
			fmt.Printf("Avg resolution:  %d days\n", report.AvgResolutionDays)
			fmt.Printf("Top category:    %s\n", report.TopCategory)
			fmt.Printf("Staff on duty:   %d\n", report.StaffCount)

			if len(report.CategoryBreakdown) > 0 {
				fmt.Println()
				fmt.Println(bold.Sprint("By category"))
				for _, row := range report.CategoryBreakdown {
					fmt.Printf("  %-20s %d\n", row.Category, row.Count)
				}
			}
			if len(report.StatusBreakdown) > 0 {
				fmt.Println()
				fmt.Println(bold.Sprint("By status"))
				for _, row := range report.StatusBreakdown {
					fmt.Printf("  %-20s %d\n", row.Status, row.Count)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "Restrict to these categories (repeatable)")

	return cmd
}

func reportExportCmd() *cobra.Command {
	var from, to, format, output string
	var categories []string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download a report as CSV or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToUpper(format)
			if format != "CSV" && format != "PDF" {
				return fmt.Errorf("unsupported format %q\nHint: use --format CSV or --format PDF", format)
			}

			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			sess, err := requireSession(store)
			if err != nil {
				return err
			}
			if res := policy.CanViewReports(viewerFrom(sess)); !res.Allowed {
				return res.Error()
			}

			data, _, err := client.ExportReport(cmd.Context(), from, to, categories, format)
			if err != nil {
				return err
			}

			if output == "" {
				output = "report." + strings.ToLower(format)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Printf("Wrote %d bytes to %s\n", len(data), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "Restrict to these categories (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "CSV", "Export format: CSV or PDF")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default report.csv / report.pdf)")

	return cmd
}

func reportChartCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the current status breakdown as a PNG chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			sess, err := requireSession(store)
			if err != nil {
				return err
			}
			if res := policy.CanViewReports(viewerFrom(sess)); !res.Allowed {
				return res.Error()
			}

			stats, err := client.Stats(cmd.Context())
			if err != nil {
				return err
			}

			png, err := summary.RenderStatusChart(*stats)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Printf("Wrote chart to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "status-chart.png", "Output PNG file")

	return cmd
}

func reportSummaryCmd() *cobra.Command {
	var output string
	var toTelegram bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Render the open complaints as a table image",
		Long: `Render the currently open complaints as a PNG table image.

With --telegram the image is also pushed to the configured Telegram chat,
the same way the watch daemon does on its summary interval.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, store, err := newAPI()
			if err != nil {
				return err
			}
			sess, err := requireSession(store)
			if err != nil {
				return err
			}
			if res := policy.CanViewReports(viewerFrom(sess)); !res.Allowed {
				return res.Error()
			}

			complaints, err := client.Complaints(cmd.Context())
			if err != nil {
				return err
			}
			var rows []summary.Row
			for _, c := range complaints {
				if !lifecycle.IsOpen(c.Status) {
					continue
				}
				rows = append(rows, summary.RowFromComplaint(c))
			}
			if len(rows) == 0 {
				fmt.Println("No open complaints to summarize.")
				return nil
			}

			png, err := summary.RenderTable(rows)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Printf("Wrote summary of %d complaints to %s\n", len(rows), output)

			if toTelegram {
				tg := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.DebugMode)
				if tg == nil {
					return fmt.Errorf("telegram is not configured\nHint: set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
				}
				caption := fmt.Sprintf("📊 Open Complaints Summary - %d pending", len(rows))
				if err := tg.SendSummaryImage(caption, png); err != nil {
					return err
				}
				fmt.Println("Sent to Telegram.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "summary.png", "Output PNG file")
	cmd.Flags().BoolVar(&toTelegram, "telegram", false, "Also push the image to Telegram")

	return cmd
}

func orAll(date string) string {
	if date == "" {
		return "(open)"
	}
	return date
}

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"resolveit/internal/policy"
)

// EscalationsCmd returns the escalations command group.
func EscalationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "escalations",
		Aliases: []string{"escalation", "esc"},
		Short:   "Raise complaints to higher authorities and work the queue",
	}

	cmd.AddCommand(escalationsListCmd())
	cmd.AddCommand(escalateCmd())
	cmd.AddCommand(escalationResolveCmd())
	cmd.AddCommand(escalationAuthoritiesCmd())
	cmd.AddCommand(escalationHistoryCmd())
	cmd.AddCommand(escalationSweepCmd())

	return cmd
}

func escalationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List escalations addressed to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			if _, err := requireSession(store); err != nil {
				return err
			}

			escalations, err := client.MyEscalations(cmd.Context())
			if err != nil {
				return err
			}
			if len(escalations) == 0 {
				fmt.Println("No escalations waiting on you.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCOMPLAINT\tFROM\tTYPE\tREASON\tRAISED")
			for _, e := range escalations {
				title := e.ComplaintTitle
				if title == "" {
					title = fmt.Sprintf("#%d", e.ComplaintID)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, title, e.EscalatedBy, e.Type, e.Reason,
					e.CreatedAt.Time.Format("02 Jan 2006"))
			}
			w.Flush()
			return nil
		},
	}
}

func escalateCmd() *cobra.Command {
	var toID int64
	var reason string

	cmd := &cobra.Command{
		Use:   "raise [complaint-id]",
		Short: "Escalate a complaint to a higher authority",
		Long: `Escalate a complaint to a higher authority.

The target must outrank you. Use "resolveit escalations authorities" to see
who you can escalate to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if toID == 0 || reason == "" {
				return fmt.Errorf("--to and --reason are required")
			}

			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			sess, err := requireSession(store)
			if err != nil {
				return err
			}

			authorities, err := client.Authorities(cmd.Context())
			if err != nil {
				return err
			}
			target := policy.RoleUnknown
			for _, a := range authorities {
				if a.ID == toID {
					target = policy.ParseRole(a.Role)
					break
				}
			}
			if target == policy.RoleUnknown {
				return fmt.Errorf("user %d is not an authority you can escalate to\nHint: run `resolveit escalations authorities`", toID)
			}
			if res := policy.CanEscalate(viewerFrom(sess), target); !res.Allowed {
				return res.Error()
			}

			if err := client.Escalate(cmd.Context(), id, toID, reason); err != nil {
				return err
			}
			fmt.Printf("Complaint %d escalated to user %d.\n", id, toID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&toID, "to", 0, "User ID of the authority to escalate to")
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Why the complaint needs escalation")

	return cmd
}

func escalationResolveCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "resolve [escalation-id]",
		Short: "Mark an escalation handled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if notes == "" {
				return fmt.Errorf("--notes is required")
			}

			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			sess, err := requireSession(store)
			if err != nil {
				return err
			}

			escalations, err := client.MyEscalations(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range escalations {
				if e.ID != id {
					continue
				}
				if res := policy.CanResolveEscalation(viewerFrom(sess), e.EscalatedToID); !res.Allowed {
					return res.Error()
				}
			}

			if err := client.ResolveEscalation(cmd.Context(), id, notes); err != nil {
				return err
			}
			fmt.Printf("Escalation %d resolved.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Resolution notes")

	return cmd
}

func escalationAuthoritiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "authorities",
		Short: "List users you can escalate to",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			if _, err := requireSession(store); err != nil {
				return err
			}

			authorities, err := client.Authorities(cmd.Context())
			if err != nil {
				return err
			}
			if len(authorities) == 0 {
				fmt.Println("No one outranks you. Nothing to escalate to.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
			for _, a := range authorities {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Name, a.Email,
					color.New(color.FgYellow).Sprint(a.Role))
			}
			w.Flush()
			return nil
		},
	}
}

func escalationHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [complaint-id]",
		Short: "Show the escalation history of a complaint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			if _, err := requireSession(store); err != nil {
				return err
			}

			history, err := client.EscalationHistory(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Printf("Complaint %d has never been escalated.\n", id)
				return nil
			}

			for _, e := range history {
				state := color.New(color.FgHiGreen).Sprint("resolved")
				if e.Active {
					state = color.New(color.FgRed).Sprint("active")
				}
				fmt.Printf("%s  %s -> %s  [%s, %s]\n",
					e.CreatedAt.Time.Format("02 Jan 2006 15:04"),
					e.EscalatedBy, e.EscalatedTo, e.Type, state)
				fmt.Printf("    %s\n", e.Reason)
			}
			return nil
		},
	}
}

func escalationSweepCmd() *cobra.Command {
	var reminders bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Trigger the auto-escalation sweep (admin)",
		Long: `Trigger the backend sweep that escalates complaints left unresolved past
the age threshold. With --reminders it sends reminder notifications for
stale assignments instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			sess, err := requireSession(store)
			if err != nil {
				return err
			}

			viewer := viewerFrom(sess)
			if reminders {
				if res := policy.CanSendReminders(viewer); !res.Allowed {
					return res.Error()
				}
				count, err := client.SendReminders(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("Sent %d reminders.\n", count)
				return nil
			}

			if res := policy.CanAutoEscalate(viewer); !res.Allowed {
				return res.Error()
			}
			count, err := client.AutoEscalate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Escalated %d overdue complaints.\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reminders, "reminders", false, "Send reminders instead of escalating")

	return cmd
}

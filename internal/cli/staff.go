package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"resolveit/internal/api"
	"resolveit/internal/policy"
)

// StaffCmd returns the staff command group.
func StaffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Staff directory, assignments and applications",
	}

	cmd.AddCommand(staffListCmd())
	cmd.AddCommand(staffAssignmentsCmd())
	cmd.AddCommand(staffApplyCmd())
	cmd.AddCommand(staffApplicationsCmd())

	return cmd
}

func staffListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List staff members available for assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			if _, err := requireSession(store); err != nil {
				return err
			}

			staff, err := client.Staff(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL")
			for _, s := range staff {
				fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Name, s.Email)
			}
			w.Flush()
			return nil
		},
	}
}

func staffAssignmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assignments",
		Short: "List complaints assigned to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			if _, err := requireSession(store); err != nil {
				return err
			}

			complaints, err := client.MyAssignments(cmd.Context())
			if err != nil {
				return err
			}
			if len(complaints) == 0 {
				fmt.Println("No complaints assigned to you.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tSTATUS\tCREATED")
			for _, c := range complaints {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					c.ID, c.Title, c.Category, statusColor(c.Status),
					c.CreatedAt.Time.Format("02 Jan 2006"))
			}
			w.Flush()
			return nil
		},
	}
}

func staffApplyCmd() *cobra.Command {
	var form api.ApplicationForm

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply to become a staff member",
		Long: `Apply to become a staff member.

One application at a time: the backend rejects a new application while a
pending or approved one exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			sess, err := requireSession(store)
			if err != nil {
				return err
			}

			existing, err := client.MyApplications(cmd.Context())
			if err != nil {
				return err
			}
			statuses := make([]string, 0, len(existing))
			for _, a := range existing {
				statuses = append(statuses, a.Status)
			}
			if res := policy.CanApplyForStaff(viewerFrom(sess), statuses); !res.Allowed {
				return res.Error()
			}

			if form.Categories == "" || form.Experience == "" || form.Motivation == "" {
				return fmt.Errorf("--categories, --experience and --motivation are required")
			}

			if err := client.Apply(cmd.Context(), form); err != nil {
				return err
			}
			fmt.Println("Application submitted.")
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Categories, "categories", "", "Comma-separated complaint categories you can handle")
	cmd.Flags().StringVar(&form.Experience, "experience", "", "Relevant experience")
	cmd.Flags().StringVar(&form.Skills, "skills", "", "Skills (optional)")
	cmd.Flags().StringVar(&form.Availability, "availability", "", "Weekly availability (optional)")
	cmd.Flags().StringVar(&form.Motivation, "motivation", "", "Why you are applying")
	cmd.Flags().StringVar(&form.PreviousExperience, "previous-experience", "", "Previous staff experience (optional)")

	return cmd
}

func staffApplicationsCmd() *cobra.Command {
	var all, pending bool
	var approve, reject int64
	var reason string

	cmd := &cobra.Command{
		Use:   "applications",
		Short: "List or review staff applications",
		Long: `List your staff applications, or review them as an admin.

Examples:
  resolveit staff applications                  # your own applications
  resolveit staff applications --pending        # pending review queue (admin)
  resolveit staff applications --approve 7      # approve application 7 (admin)
  resolveit staff applications --reject 7 --reason "No capacity"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			if _, err := requireSession(store); err != nil {
				return err
			}

			switch {
			case approve != 0:
				if err := client.ApproveApplication(cmd.Context(), approve); err != nil {
					return err
				}
				fmt.Printf("Application %d approved.\n", approve)
				return nil
			case reject != 0:
				if err := client.RejectApplication(cmd.Context(), reject, reason); err != nil {
					return err
				}
				fmt.Printf("Application %d rejected.\n", reject)
				return nil
			}

			list := client.MyApplications
			if all {
				list = client.AllApplications
			} else if pending {
				list = client.PendingApplications
			}

			applications, err := list(cmd.Context())
			if err != nil {
				return err
			}
			if len(applications) == 0 {
				fmt.Println("No applications.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tAPPLICANT\tCATEGORIES\tSTATUS\tSUBMITTED")
			for _, a := range applications {
				name := a.UserName
				if name == "" {
					name = fmt.Sprintf("user %d", a.UserID)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					a.ID, name, a.Categories, a.Status,
					a.SubmittedAt.Time.Format("02 Jan 2006"))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every application (admin)")
	cmd.Flags().BoolVar(&pending, "pending", false, "List applications awaiting review (admin)")
	cmd.Flags().Int64Var(&approve, "approve", 0, "Approve the application with this ID (admin)")
	cmd.Flags().Int64Var(&reject, "reject", 0, "Reject the application with this ID (admin)")
	cmd.Flags().StringVar(&reason, "reason", "", "Rejection reason")

	return cmd
}

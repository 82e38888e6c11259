package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"resolveit/internal/api"
	"resolveit/internal/complaint"
	"resolveit/internal/lifecycle"
	"resolveit/internal/policy"
	"resolveit/internal/timeline"
)

// ComplaintsCmd returns the complaints command group.
func ComplaintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "complaints",
		Aliases: []string{"complaint", "c"},
		Short:   "Manage complaints",
		Long:    "List, inspect, submit and act on complaints.",
	}

	cmd.AddCommand(complaintsListCmd())
	cmd.AddCommand(complaintsShowCmd())
	cmd.AddCommand(complaintsTrackCmd())
	cmd.AddCommand(complaintsSubmitCmd())
	cmd.AddCommand(complaintsAssignCmd())
	cmd.AddCommand(complaintsResolveCmd())
	cmd.AddCommand(complaintsStatusCmd())
	cmd.AddCommand(complaintsNoteCmd())
	cmd.AddCommand(complaintsStatsCmd())

	return cmd
}

func complaintsListCmd() *cobra.Command {
	var openOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible complaints",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			if _, err := requireSession(store); err != nil {
				return err
			}

			complaints, err := client.Complaints(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tSTATUS\tASSIGNED TO\tCREATED")
			shown := 0
			for _, c := range complaints {
				if openOnly && !lifecycle.IsOpen(c.Status) {
					continue
				}
				assigned := "-"
				if c.AssignedTo != nil {
					assigned = c.AssignedTo.Name
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					c.ID, c.Title, c.Category, statusColor(c.Status), assigned,
					c.CreatedAt.Time.Format("02 Jan 2006"))
				shown++
			}
			w.Flush()
			fmt.Printf("\n%d complaints\n", shown)
			return nil
		},
	}

	cmd.Flags().BoolVar(&openOnly, "open", false, "Show only open complaints")
	return cmd
}

func complaintsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one complaint with available actions",
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
			sess, err := requireSession(store)
			if err != nil {
				return err
			}

			c, err := client.Complaint(cmd.Context(), id)
			if err != nil {
				return err
			}

			printComplaint(c)

			files, _, err := client.ComplaintFiles(cmd.Context(), id)
			if err == nil && len(files) > 0 {
				fmt.Println("\nAttachments:")
				for _, f := range files {
					marker := ""
					if f.AdminOnly {
						marker = color.New(color.FgRed).Sprint(" [admin only]")
					}
					fmt.Printf("  %d  %s (%s)%s\n", f.ID, f.FileName, complaint.FormatFileSize(f.FileSize), marker)
				}
			}

			actions := policy.Allowed(viewerFrom(sess), policyContext(c))
			if len(actions) > 0 {
				fmt.Println("\nAvailable actions:")
				for _, a := range actions {
					fmt.Printf("  - %s\n", a)
				}
			}
			return nil
		},
	}
}

func complaintsTrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track [id]",
		Short: "Show the progress timeline of a complaint",
		Long: `Show the lifecycle progress and event timeline of a complaint,
most recent event first.`,
		Args: cobra.ExactArgs(1),
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

			c, err := client.Complaint(cmd.Context(), id)
			if err != nil {
				return err
			}

			state := lifecycle.FromBackend(c.Status)
			fmt.Printf("Complaint #%d — %s\n", c.ID, c.Title)
			fmt.Printf("Status: %s  %s\n\n", statusColor(c.Status), progressBar(lifecycle.Progress(state)))

			for _, ev := range timeline.Generate(*c, state, time.Now()) {
				mark := color.New(color.FgHiGreen).Sprint("●")
				if ev.Status == timeline.MarkInProgress {
					mark = color.New(color.FgHiBlue).Sprint("◐")
				}
				fmt.Printf("%s %s  %s\n", mark, ev.Date.Format("02 Jan 2006"), color.New(color.Bold).Sprint(ev.Title))
				fmt.Printf("   %s\n", ev.Description)
			}
			return nil
		},
	}
}

func complaintsSubmitCmd() *cobra.Command {
	var (
		title       string
		category    string
		description string
		anonymous   bool
		files       []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new complaint",
		Long: fmt.Sprintf(`Submit a new complaint, optionally with file attachments.

Categories: %v

Attachment limits: images up to 5MB, documents up to 10MB, videos up to 50MB.`, complaint.Categories),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			if _, err := requireSession(store); err != nil {
				return err
			}

			sub := complaint.Submission{
				Title:       title,
				Category:    category,
				Description: description,
				Anonymous:   anonymous,
			}

			var id int64
			if len(files) == 0 {
				id, err = client.Submit(cmd.Context(), sub)
			} else {
				attachments, aErr := readAttachments(files)
				if aErr != nil {
					return aErr
				}
				id, err = client.SubmitWithFiles(cmd.Context(), sub, attachments)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Complaint #%d submitted.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Complaint title")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Complaint category")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Complaint description")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "Hide your name from staff")
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "Attachment path (repeatable)")

	return cmd
}

func complaintsAssignCmd() *cobra.Command {
	var staffID int64

	cmd := &cobra.Command{
		Use:   "assign [id]",
		Short: "Assign a complaint to a staff member (admin)",
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
			sess, err := requireSession(store)
			if err != nil {
				return err
			}

			if res := policy.CanAssign(viewerFrom(sess)); !res.Allowed {
				return res.Error()
			}
			if staffID == 0 {
				return fmt.Errorf("--staff is required\nHint: run `resolveit staff list`")
			}

			if err := client.Assign(cmd.Context(), id, staffID); err != nil {
				return err
			}

			// Re-fetch so the user sees what the backend actually did
			// (assigning a NEW complaint also moves it to IN_PROGRESS)
			c, err := client.Complaint(cmd.Context(), id)
			if err != nil {
				return err
			}
			printComplaint(c)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&staffID, "staff", "s", 0, "Staff member ID")
	return cmd
}

func complaintsResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [id]",
		Short: "Mark a complaint resolved",
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
			sess, err := requireSession(store)
			if err != nil {
				return err
			}

			c, err := client.Complaint(cmd.Context(), id)
			if err != nil {
				return err
			}
			if res := policy.CanResolve(viewerFrom(sess), policyContext(c)); !res.Allowed {
				return res.Error()
			}

			if err := client.Resolve(cmd.Context(), id); err != nil {
				return err
			}

			c, err = client.Complaint(cmd.Context(), id)
			if err != nil {
				return err
			}
			printComplaint(c)
			return nil
		},
	}
}

func complaintsStatusCmd() *cobra.Command {
	var staffDashboard bool

	cmd := &cobra.Command{
		Use:   "status [id] [new-status]",
		Short: "Change a complaint's status",
		Long: `Change a complaint's raw status code.

Allowed transitions: NEW ⇄ IN_PROGRESS, IN_PROGRESS → RESOLVED.
Admins may additionally force any complaint back to NEW.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			sess, err := requireSession(store)
			if err != nil {
				return err
			}

			c, err := client.Complaint(cmd.Context(), id)
			if err != nil {
				return err
			}

			target := lifecycle.Code(args[1])
			res := policy.CanUpdateStatus(viewerFrom(sess), policyContext(c), target)
			if !res.Allowed {
				return res.Error()
			}

			update := client.UpdateStatus
			if staffDashboard {
				update = client.UpdateStaffStatus
			}
			if err := update(cmd.Context(), id, string(target)); err != nil {
				return err
			}

			c, err = client.Complaint(cmd.Context(), id)
			if err != nil {
				return err
			}
			printComplaint(c)
			return nil
		},
	}

	cmd.Flags().BoolVar(&staffDashboard, "staff", false, "Use the staff dashboard endpoint")
	return cmd
}

func complaintsNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note [id] [text]",
		Short: "Add a progress note to an assigned complaint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			sess, err := requireSession(store)
			if err != nil {
				return err
			}

			c, err := client.Complaint(cmd.Context(), id)
			if err != nil {
				return err
			}
			if res := policy.CanAddProgressNote(viewerFrom(sess), policyContext(c)); !res.Allowed {
				return res.Error()
			}

			if err := client.AddProgressNote(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Println("Progress note added.")
			return nil
		},
	}
}

func complaintsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate complaint counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, store, err := newAPI()
			if err != nil {
				return err
			}
			if _, err := requireSession(store); err != nil {
				return err
			}

			stats, err := client.Stats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Total: %d   Last 7 days: %d\n\n", stats.Total, stats.Recent)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for status, n := range stats.ByStatus {
				fmt.Fprintf(w, "%s\t%d\n", statusColor(status), n)
			}
			w.Flush()
			return nil
		},
	}
}

// printComplaint renders the complaint detail block.
func printComplaint(c *complaint.Complaint) {
	state := lifecycle.FromBackend(c.Status)

	fmt.Printf("Complaint #%d — %s\n", c.ID, color.New(color.Bold).Sprint(c.Title))
	fmt.Printf("Category:  %s\n", c.Category)
	fmt.Printf("Status:    %s  %s\n", statusColor(c.Status), progressBar(lifecycle.Progress(state)))
	raisedBy := c.RaisedBy
	if c.Anonymous || raisedBy == "" {
		raisedBy = "Anonymous"
	}
	fmt.Printf("Raised by: %s\n", raisedBy)
	if c.AssignedTo != nil {
		fmt.Printf("Assigned:  %s <%s>\n", c.AssignedTo.Name, c.AssignedTo.Email)
	}
	fmt.Printf("Created:   %s\n", c.CreatedAt.Time.Format("02 Jan 2006 15:04"))
	if c.Description != "" {
		fmt.Printf("\n%s\n", c.Description)
	}
}

// policyContext maps a fetched complaint onto the policy layer's view.
func policyContext(c *complaint.Complaint) policy.ComplaintContext {
	var assigneeID int64
	if c.AssignedTo != nil {
		assigneeID = c.AssignedTo.ID
	}
	return policy.ComplaintContext{
		ID:         c.ID,
		AssigneeID: assigneeID,
		Status:     statusCode(c.Status),
	}
}

// statusCode maps a display status back to its raw code.
func statusCode(display string) lifecycle.Code {
	switch lifecycle.FromBackend(display) {
	case lifecycle.StateInProgress:
		return lifecycle.CodeInProgress
	case lifecycle.StateEscalated:
		return lifecycle.CodeEscalated
	case lifecycle.StateResolved:
		return lifecycle.CodeResolved
	default:
		return lifecycle.CodeNew
	}
}

// readAttachments loads attachment files from disk.
func readAttachments(paths []string) ([]api.Attachment, error) {
	var out []api.Attachment
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		out = append(out, api.Attachment{
			Name:     filepath.Base(p),
			MimeType: complaint.MimeTypeFor(p),
			Content:  data,
		})
	}
	return out, nil
}

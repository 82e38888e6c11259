package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"resolveit/internal/complaint"
	"resolveit/internal/policy"
)

// FilesCmd returns the files command group.
func FilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage complaint attachments",
	}

	cmd.AddCommand(filesListCmd())
	cmd.AddCommand(filesDownloadCmd())
	cmd.AddCommand(filesDeleteCmd())

	return cmd
}

func filesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [complaint-id]",
		Short: "List the attachments of a complaint",
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

			files, isAdmin, err := client.ComplaintFiles(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("No attachments.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSIZE\tUPLOADED\tACCESS")
			for _, f := range files {
				access := "everyone"
				if f.AdminOnly {
					access = color.New(color.FgRed).Sprint("admin only")
					if !isAdmin {
						access += " (locked)"
					}
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					f.ID, f.FileName, f.FileType,
					complaint.FormatFileSize(f.FileSize),
					f.UploadedAt.Time.Format("02 Jan 2006"), access)
			}
			w.Flush()
			return nil
		},
	}
}

func filesDownloadCmd() *cobra.Command {
	var output string
	var complaintID int64

	cmd := &cobra.Command{
		Use:   "download [file-id]",
		Short: "Download an attachment",
		Long: `Download an attachment by file ID.

Admin-only files are checked against the listing's admin flag before the
download request is sent; pass --complaint to enable the check.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID, err := parseID(args[0])
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

			name := fmt.Sprintf("file-%d", fileID)
			if complaintID != 0 {
				files, isAdmin, err := client.ComplaintFiles(cmd.Context(), complaintID)
				if err != nil {
					return err
				}
				for _, f := range files {
					if f.ID != fileID {
						continue
					}
					if res := policy.CanDownloadFile(f.AdminOnly, isAdmin); !res.Allowed {
						return res.Error()
					}
					name = f.FileName
				}
			}

			data, _, err := client.DownloadFile(cmd.Context(), fileID)
			if err != nil {
				return err
			}

			if output == "" {
				output = filepath.Base(name)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Printf("Saved %s (%s)\n", output, complaint.FormatFileSize(int64(len(data))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (defaults to the original file name)")
	cmd.Flags().Int64VarP(&complaintID, "complaint", "c", 0, "Complaint ID for the admin-only access check")
	return cmd
}

func filesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [file-id]",
		Short: "Delete an attachment (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID, err := parseID(args[0])
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

			if res := policy.CanDeleteFile(viewerFrom(sess)); !res.Allowed {
				return res.Error()
			}

			if err := client.DeleteFile(cmd.Context(), fileID); err != nil {
				return err
			}
			fmt.Println("Attachment deleted.")
			return nil
		},
	}
}

package audit

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/crucial707/printdesk/cmd/cli/client"
	"github.com/crucial707/printdesk/cmd/cli/output"
	describe "github.com/crucial707/printdesk/internal/audit"
	"github.com/crucial707/printdesk/internal/models"
	"github.com/spf13/cobra"
)

// entry mirrors one element of GET /audit-logs.
type entry struct {
	models.AuditRecord
	Summary string `json:"summary"`
}

type changesResponse struct {
	ID         int64                  `json:"id"`
	Action     models.Action          `json:"action"`
	Resource   models.Resource        `json:"resource"`
	ResourceID int                    `json:"resource_id"`
	Summary    string                 `json:"summary"`
	Changes    []describe.FieldChange `json:"changes"`
}

// exportPaths maps the --format flag to the API route.
var exportPaths = map[string]string{
	"pdf":   "/audit-logs/export/pdf",
	"excel": "/audit-logs/export/excel",
}

// InitAudit registers the audit commands on the root command.
func InitAudit(rootCmd *cobra.Command) {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect and export the audit log",
	}
	auditCmd.AddCommand(listCmd(), changesCmd(), exportCmd())
	rootCmd.AddCommand(auditCmd)
}

func listCmd() *cobra.Command {
	var (
		asJSON bool
		tz     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("invalid --tz: %w", err)
			}

			var entries []entry
			if err := client.Do(http.MethodGet, "/audit-logs", true, nil, &entries); err != nil {
				return err
			}
			if asJSON {
				return output.RenderJSON(entries)
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{
					e.ID,
					e.UserName,
					e.UserRole,
					describe.ActionLabel(e.Action),
					e.Summary,
					describe.FormatTimestamp(e.Timestamp, loc),
				})
			}
			output.RenderTable([]string{"ID", "Usuario", "Rol", "Acción", "Resumen", "Fecha"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	cmd.Flags().StringVar(&tz, "tz", "Local", "Timezone for the Fecha column")
	return cmd
}

func changesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "changes ID",
		Short: "Show old and new values of one audit entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid audit log id %q", args[0])
			}

			var resp changesResponse
			if err := client.Do(http.MethodGet, fmt.Sprintf("/audit-logs/%d/changes", id), true, nil, &resp); err != nil {
				return err
			}

			fmt.Println(resp.Summary)
			rows := make([][]interface{}, 0, len(resp.Changes))
			for _, c := range resp.Changes {
				rows = append(rows, []interface{}{c.Field, c.Old, c.New})
			}
			output.RenderTable([]string{"Campo", "Antes", "Después"}, rows)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var format, outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the audit log as PDF or Excel",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, ok := exportPaths[format]
			if !ok {
				return fmt.Errorf("unknown format %q: use pdf or excel", format)
			}

			name, data, err := client.Download(path)
			if err != nil {
				return err
			}
			if name == "" {
				name = fallbackName(format, time.Now())
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			dest := filepath.Join(outDir, filepath.Base(name))
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes).\n", dest, len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pdf", "pdf or excel")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the file to")
	return cmd
}

func fallbackName(format string, now time.Time) string {
	ext := "pdf"
	if format == "excel" {
		ext = "xlsx"
	}
	return "audit_logs_" + now.Format("2006-01-02") + "." + ext
}

package audit

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/assetflow/assetflow/cmd/cli/client"
	"github.com/assetflow/assetflow/cmd/cli/output"
	"github.com/assetflow/assetflow/internal/models"
)

// InitAudit registers the audit command group.
func InitAudit(rootCmd *cobra.Command) {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}

	auditCmd.AddCommand(listAuditCmd())
	rootCmd.AddCommand(auditCmd)
}

func listAuditCmd() *cobra.Command {
	var action, entityType string
	var entityID, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit log entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/audit?limit=%d", limit)
			if action != "" {
				path += "&action=" + action
			}
			if entityType != "" {
				path += "&entity_type=" + entityType
			}
			if entityID > 0 {
				path += fmt.Sprintf("&entity_id=%d", entityID)
			}

			data, err := client.Do(http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			var entries []models.AuditEntry
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("invalid response: %w", err)
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				details := string(e.Details)
				if len(details) > 60 {
					details = details[:60] + "..."
				}
				rows = append(rows, []interface{}{
					e.ID, e.Action, e.EntityType, e.EntityID, e.ActorID,
					e.CreatedAt.Format("2006-01-02 15:04:05"), details,
				})
			}
			output.RenderTable([]string{"ID", "Action", "Entity", "Entity ID", "Actor", "At", "Details"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "Filter by action (e.g. asset_deleted)")
	cmd.Flags().StringVar(&entityType, "entity-type", "", "Filter by entity type (asset, deletion_request, user)")
	cmd.Flags().IntVar(&entityID, "entity-id", 0, "Filter by entity id")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries")
	return cmd
}

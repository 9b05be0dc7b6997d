package requests

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/assetflow/assetflow/cmd/cli/client"
	"github.com/assetflow/assetflow/cmd/cli/output"
	"github.com/assetflow/assetflow/internal/models"
)

// InitRequests registers the deletion-request command group.
func InitRequests(rootCmd *cobra.Command) {
	requestsCmd := &cobra.Command{
		Use:   "requests",
		Short: "Manage asset deletion requests",
	}

	requestsCmd.AddCommand(
		listRequestsCmd(),
		submitRequestCmd(),
		cancelRequestCmd(),
		approveRequestCmd(),
		rejectRequestCmd(),
	)

	rootCmd.AddCommand(requestsCmd)
}

func listRequestsCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deletion requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/requests?limit=%d", limit)
			if status != "" {
				path += "&status=" + status
			}
			data, err := client.Do(http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			var requests []models.DeletionRequest
			if err := json.Unmarshal(data, &requests); err != nil {
				return fmt.Errorf("invalid response: %w", err)
			}

			rows := make([][]interface{}, 0, len(requests))
			for _, r := range requests {
				assetID := "-"
				if r.AssetID != nil {
					assetID = fmt.Sprint(*r.AssetID)
				}
				comment := "-"
				if r.ReviewComment != nil {
					comment = *r.ReviewComment
				}
				rows = append(rows, []interface{}{
					r.ID, assetID, r.AssetName, r.Status, r.RequestedBy, comment,
				})
			}
			output.RenderTable([]string{"ID", "Asset", "Asset Name", "Status", "Requested By", "Comment"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, approved, rejected, cancelled)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of requests to list")
	return cmd
}

func submitRequestCmd() *cobra.Command {
	var assetID int
	var justification string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a deletion request for an asset you own",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _ := json.Marshal(map[string]any{
				"asset_id":      assetID,
				"justification": justification,
			})
			data, err := client.Do(http.MethodPost, "/requests", body)
			if err != nil {
				return err
			}

			var req models.DeletionRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("invalid response: %w", err)
			}
			fmt.Printf("Submitted deletion request %d for asset %q (status: %s)\n", req.ID, req.AssetName, req.Status)
			return nil
		},
	}

	cmd.Flags().IntVar(&assetID, "asset", 0, "Asset id")
	cmd.Flags().StringVar(&justification, "justification", "", "Why the asset should be deleted")
	cmd.MarkFlagRequired("asset")
	cmd.MarkFlagRequired("justification")
	return cmd
}

func cancelRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel your own pending deletion request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.Do(http.MethodPost, "/requests/"+args[0]+"/cancel", nil); err != nil {
				return err
			}
			fmt.Println("Request cancelled.")
			return nil
		},
	}
}

// reviewBody builds the approve/reject payload. With no --comment flag set
// the comment field stays null, which the API stores as SQL NULL.
func reviewBody(cmd *cobra.Command, comment string) []byte {
	payload := map[string]any{}
	if cmd.Flags().Changed("comment") {
		payload["comment"] = comment
	}
	body, _ := json.Marshal(payload)
	return body
}

func approveRequestCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending deletion request (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client.Do(http.MethodPost, "/requests/"+args[0]+"/approve", reviewBody(cmd, comment))
			if err != nil {
				return err
			}

			var outcome struct {
				Request      models.DeletionRequest `json:"request"`
				AssetDeleted bool                   `json:"asset_deleted"`
			}
			if err := json.Unmarshal(data, &outcome); err != nil {
				return fmt.Errorf("invalid response: %w", err)
			}
			fmt.Printf("Request %d approved; asset deleted: %v\n", outcome.Request.ID, outcome.AssetDeleted)
			return nil
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Optional review comment")
	return cmd
}

func rejectRequestCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending deletion request (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.Do(http.MethodPost, "/requests/"+args[0]+"/reject", reviewBody(cmd, comment)); err != nil {
				return err
			}
			fmt.Println("Request rejected.")
			return nil
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Optional review comment")
	return cmd
}

package assets

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/assetflow/assetflow/cmd/cli/client"
	"github.com/assetflow/assetflow/cmd/cli/output"
	"github.com/assetflow/assetflow/internal/models"
)

// InitAssets registers the assets command group on the root command.
func InitAssets(rootCmd *cobra.Command) {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage assets",
	}

	assetsCmd.AddCommand(
		listAssetsCmd(),
		createAssetCmd(),
		deleteAssetCmd(),
	)

	rootCmd.AddCommand(assetsCmd)
}

func listAssetsCmd() *cobra.Command {
	var limit int
	var name string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/assets?limit=%d", limit)
			if name != "" {
				path += "&name=" + name
			}
			data, err := client.Do(http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			var assets []models.Asset
			if err := json.Unmarshal(data, &assets); err != nil {
				return fmt.Errorf("invalid response: %w", err)
			}

			rows := make([][]interface{}, 0, len(assets))
			for _, a := range assets {
				rows = append(rows, []interface{}{
					a.ID, a.Name, a.CategoryID, a.DepartmentID,
					fmt.Sprintf("%.2f", a.Cost), a.PurchaseDate.Format("2006-01-02"),
				})
			}
			output.RenderTable([]string{"ID", "Name", "Category", "Department", "Cost", "Purchased"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of assets to list")
	cmd.Flags().StringVar(&name, "name", "", "Filter by name substring")
	return cmd
}

func createAssetCmd() *cobra.Command {
	var name string
	var categoryID, departmentID int
	var cost float64
	var purchaseDate string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse("2006-01-02", purchaseDate)
			if err != nil {
				return fmt.Errorf("invalid --purchase-date (want YYYY-MM-DD): %w", err)
			}

			body, _ := json.Marshal(map[string]any{
				"name":          name,
				"category_id":   categoryID,
				"department_id": departmentID,
				"cost":          cost,
				"purchase_date": date,
			})
			data, err := client.Do(http.MethodPost, "/assets", body)
			if err != nil {
				return err
			}

			var asset models.Asset
			if err := json.Unmarshal(data, &asset); err != nil {
				return fmt.Errorf("invalid response: %w", err)
			}
			fmt.Printf("Created asset %d (%s)\n", asset.ID, asset.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Asset name")
	cmd.Flags().IntVar(&categoryID, "category", 0, "Category id")
	cmd.Flags().IntVar(&departmentID, "department", 0, "Department id")
	cmd.Flags().Float64Var(&cost, "cost", 0, "Cost")
	cmd.Flags().StringVar(&purchaseDate, "purchase-date", "", "Purchase date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("department")
	cmd.MarkFlagRequired("cost")
	cmd.MarkFlagRequired("purchase-date")
	return cmd
}

// deleteAssetCmd is the direct admin deletion path; a pending deletion
// request for the asset is auto-approved server-side.
func deleteAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an asset directly (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.Do(http.MethodDelete, "/assets/"+args[0], nil); err != nil {
				return err
			}
			fmt.Println("Asset deleted.")
			return nil
		},
	}
}

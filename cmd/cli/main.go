package main

import (
	"fmt"
	"os"

	"github.com/assetflow/assetflow/cmd/cli/assets"
	"github.com/assetflow/assetflow/cmd/cli/audit"
	"github.com/assetflow/assetflow/cmd/cli/auth"
	"github.com/assetflow/assetflow/cmd/cli/requests"
	"github.com/assetflow/assetflow/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()

	auth.InitAuth(rootCmd)
	assets.InitAssets(rootCmd)
	requests.InitRequests(rootCmd)
	audit.InitAudit(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

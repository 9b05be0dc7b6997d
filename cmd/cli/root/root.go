package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "assetflow",
	Short: "AssetFlow CLI",
	Long:  "Command line interface for the AssetFlow inventory API",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// GetRoot returns the root command for command registration.
func GetRoot() *cobra.Command {
	return rootCmd
}

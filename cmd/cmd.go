package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pagecraft",
	Short: "Multi-tenant page builder backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine in deployed environments, where config
		// comes from real environment variables.
		if err := godotenv.Overload(); err != nil {
			log.Println("No .env file loaded, using process environment")
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err.Error())
	}
}

// Package main provides the job-tracker command line: the application
// counter, job page scraping, saved jobs, resume generation, the local API
// server and the terminal overlay.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job-tracker",
	Short: "Track job applications and generate tailored resumes",
	Long: `job-tracker counts the applications you send each day, keeps a daily streak,
saves job postings you find and generates a resume tailored to a posting.

Configuration can be loaded from a JSON file using --config. Environment
variables (JOB_TRACKER_*, DATABASE_URL, OPENAI_API_KEY) override the file and
command-line flags override both.`,
	SilenceUsage: true,
}

var (
	configPath string
	verbose    bool
	storeKind  string
	storePath  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Store backend: file, sqlite, postgres or memory")
	rootCmd.PersistentFlags().StringVar(&storePath, "store-path", "", "Path of the file or sqlite store")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

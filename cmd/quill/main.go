// Package main provides the quill CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"quill/cli"
)

var (
	// Global flags
	provider   string
	model      string
	configPath string
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "quill",
		Short: "Interactive coding assistant that edits files through tool calls",
		Long: `An interactive chat session with a streaming LLM that can read,
create and edit files in the current project through function calls.

Use /add <path> to load a file or directory into the conversation,
/clear to reset it, and /exit to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(context.Background(), cli.Options{
				Provider:   provider,
				Model:      model,
				ConfigPath: configPath,
			})
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (deepseek, openai, anthropic, gemini)")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "Model identifier (defaults per provider)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default quill.yaml)")

	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(toolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session (same as running with no command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(context.Background(), cli.Options{
				Provider:   provider,
				Model:      model,
				ConfigPath: configPath,
			})
		},
	}
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools exposed to the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListTools()
		},
	}
}

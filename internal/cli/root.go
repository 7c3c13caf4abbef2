// Package cli recipectl 命令列工具
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"recipe-extractor/internal/app"
	"recipe-extractor/internal/core/library"
	"recipe-extractor/internal/core/recipe"
	"recipe-extractor/internal/infrastructure/config"
	"recipe-extractor/internal/pkg/common"

	"github.com/spf13/cobra"
)

// Extractor 擷取流程
type Extractor interface {
	Extract(ctx context.Context, url string, creds recipe.Credentials) (*common.Recipe, error)
}

// RootCommand recipectl 根命令
type RootCommand struct {
	cmd       *cobra.Command
	library   *library.Library
	extractor Extractor
	closer    func() error
	opts      *OutputOptions
	formatStr string
	verbose   bool
}

// NewRootCommand 創建根命令
func NewRootCommand() *RootCommand {
	root := &RootCommand{
		opts: NewOutputOptions(),
	}

	cmd := &cobra.Command{
		Use:   "recipectl",
		Short: "Extract structured recipes from web pages",
		Long: `recipectl extracts a recipe (ingredients, steps, warnings) from any web page
using Firecrawl for scraping and an LLM of your choice for extraction.

Keys and history are kept in the local store configured for the API server.`,
		SilenceUsage:       true,
		PersistentPreRunE:  root.persistentPreRunE,
		PersistentPostRunE: root.persistentPostRunE,
	}

	pflags := cmd.PersistentFlags()
	pflags.StringVarP(&root.formatStr, "output", "o", string(OutputText), "Output format (text, json, yaml)")
	pflags.BoolVarP(&root.verbose, "verbose", "v", false, "Log to stderr")

	root.cmd = cmd
	root.addSubCommands()

	return root
}

func (r *RootCommand) persistentPreRunE(cmd *cobra.Command, args []string) error {
	format, err := ParseOutputFormat(r.formatStr)
	if err != nil {
		return err
	}
	r.opts.Format = format

	// 測試時已注入
	if r.library != nil {
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if r.verbose {
		if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	r.library = a.Library
	r.extractor = a.Extractor
	r.closer = a.Close
	return nil
}

func (r *RootCommand) persistentPostRunE(cmd *cobra.Command, args []string) error {
	common.Sync()
	if r.closer != nil {
		return r.closer()
	}
	return nil
}

func (r *RootCommand) addSubCommands() {
	r.cmd.AddCommand(NewExtractCommand(r))
	r.cmd.AddCommand(NewHistoryCommand(r))
	r.cmd.AddCommand(NewShowCommand(r))
	r.cmd.AddCommand(NewDeleteCommand(r))
	r.cmd.AddCommand(NewModelsCommand(r))
	r.cmd.AddCommand(NewSettingsCommand(r))
	r.cmd.AddCommand(NewConvertCommand(r))
}

// Command 取得 cobra 命令
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// OutputOptions 取得輸出設定
func (r *RootCommand) OutputOptions() *OutputOptions {
	return r.opts
}

// ExecuteContext 執行命令
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// Execute 執行 recipectl；Ctrl+C 會取消進行中的擷取
func Execute() {
	root := NewRootCommand()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

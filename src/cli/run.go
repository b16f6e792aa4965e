package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.lsp.dev/uri"

	"livecode-ls/src/config"
	"livecode-ls/src/internal/common"
	"livecode-ls/src/server"
	"livecode-ls/src/server/documents"
	"livecode-ls/src/server/process"
	"livecode-ls/src/server/scanner"
	"livecode-ls/src/server/validation"
)

// runServerCmd starts the LSP server on stdio
func runServerCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		common.CLILogger.Info("Received shutdown signal, stopping server...")
		cancel()
	}()

	return server.Run(ctx, configPath)
}

// runScanCmd prints the outline of a single script file
func runScanCmd(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	symbols := scanner.Scan(doc.Lines())
	if len(symbols) == 0 {
		fmt.Println("no symbols")
		return nil
	}

	printSymbols(symbols, 0)
	return nil
}

func printSymbols(symbols []*scanner.Symbol, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, sym := range symbols {
		detail := ""
		if sym.Detail != "" {
			detail = " (" + sym.Detail + ")"
		}
		fmt.Printf("%s%s %s%s [%d-%d]\n", indent, sym.Kind, sym.Name, detail, sym.StartLine+1, sym.EndLine+1)
		printSymbols(sym.Children, depth+1)
	}
}

// runCheckCmd performs one validation pass and prints the diagnostics
func runCheckCmd(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	workspaceRoot := filepath.Dir(doc.Path())
	cfg, _ := config.LoadConfigWithFallback(configPath, workspaceRoot)

	validator := validation.NewValidator(cfg, process.NewExecRunner(), validation.NewMemorySink(), nil)
	diagnostics, err := validator.Check(context.Background(), doc, cfg)
	if err != nil {
		return err
	}

	if len(diagnostics) == 0 {
		fmt.Printf("%s: no problems found\n", args[0])
		return nil
	}

	for _, diag := range diagnostics {
		fmt.Printf("%s:%d: %s\n", args[0], diag.Range.Start.Line+1, diag.Message)
	}
	return fmt.Errorf("%d problem(s) found", len(diagnostics))
}

// runConfigCmd writes a default config file
func runConfigCmd(cmd *cobra.Command, args []string) error {
	path := outPath
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := config.GenerateDefaultConfig(path); err != nil {
		return err
	}
	common.CLILogger.Info("Wrote default configuration to %s", path)
	return nil
}

// loadDocument reads a script file into an in-memory document
func loadDocument(path string) (*documents.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	docURI := uri.File(abs)
	languageID := documents.DetectLanguage(docURI)
	if languageID == "" {
		languageID = documents.LanguageLiveCode
	}

	return &documents.Document{
		URI:        docURI,
		LanguageID: languageID,
		Version:    1,
		Text:       string(content),
	}, nil
}

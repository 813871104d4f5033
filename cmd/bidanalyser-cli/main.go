package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"bidanalyser/tender"
)

type cliOptions struct {
	configPath string
	filePath   string
	lang       string
	export     bool
	outDir     string
	questions  multiFlag
}

type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ", ") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("bidanalyser-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("bidanalyser-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "path to config file (default: bidanalyser.yaml)")
	flag.StringVar(&opts.filePath, "file", "", "document to analyze (PDF or TXT)")
	flag.StringVar(&opts.lang, "lang", "", "translate the result to this language before printing")
	flag.BoolVar(&opts.export, "export", false, "save the rendered report after analysis")
	flag.StringVar(&opts.outDir, "out", "", "directory for the exported report (default from config)")
	flag.Var(&opts.questions, "ask", "question to ask about the document (repeatable)")
	flag.Parse()
	if opts.filePath == "" {
		return opts, errors.New("-file is required")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := tender.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.outDir != "" {
		cfg.ReportsDir = opts.outDir
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := tender.NewClient(cfg, logger)
	session := tender.NewSession()
	if cfg.APIKey != "" {
		session.SetCredential(cfg.APIKey)
	}
	session.SelectFile(opts.filePath)

	// No save dialog in headless mode; exports go straight to disk.
	svc := tender.NewService(cfg, client, session, nil, tender.DirSaver{Dir: cfg.ReportsDir}, logger)
	ctx := context.Background()

	if err := svc.Analyze(ctx); err != nil {
		if msg := session.Err(); msg != "" {
			return fmt.Errorf("analyze: %s", msg)
		}
		return fmt.Errorf("analyze: %w", err)
	}
	if opts.lang != "" {
		if err := svc.Translate(ctx, opts.lang); err != nil {
			return fmt.Errorf("translate: %w", err)
		}
	}

	printResult(session.Result())

	for _, q := range opts.questions {
		if err := svc.Ask(ctx, q); err != nil {
			return fmt.Errorf("ask: %w", err)
		}
	}
	printTranscript(session.Transcript())

	if opts.export {
		if err := svc.Export(ctx); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Report written to %s/%s\n", cfg.ReportsDir, cfg.ReportFile)
	}
	return nil
}

func printResult(result *tender.Result) {
	if summary := result.Field(tender.FieldExecutiveSummary); summary != "" {
		fmt.Println("EXECUTIVE SUMMARY")
		fmt.Println(summary)
		fmt.Println()
	}
	for _, sec := range tender.Normalize(result) {
		if len(sec.Rows) == 0 {
			continue
		}
		fmt.Println(strings.ToUpper(sec.Title))
		for _, row := range sec.Rows {
			fmt.Printf("  %-28s %s\n", row.Label, row.Value)
		}
		fmt.Println()
	}
}

func printTranscript(entries []tender.ChatEntry) {
	for _, e := range entries {
		prefix := "A"
		if e.Kind == tender.EntryQuestion {
			prefix = "Q"
		}
		fmt.Printf("%s: %s\n", prefix, e.Content)
	}
}

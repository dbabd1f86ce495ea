package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Plan     string `arg:"" optional:"" help:"Plan file: a plan script (.hw) or a YAML plan (.yaml). The default plan is used when omitted."`
	Document string `short:"d" help:"Host document fixture" default:"examples/document.yaml"`
	Output   string `short:"o" help:"Write the result and preview meshes as JSON to this file ('-' for stdout)"`
	Verbose  bool   `short:"v" help:"Enable verbose logging"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("housewright"),
		kong.Description("Generate a four-wall house with a door, windows and a gable roof."),
	)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	adapter := newCLIErrorAdapter(CLI.Verbose, logger)
	adapter.HandleError(run(NewApp(logger), CLI.Document, CLI.Plan, CLI.Output, os.Stdout))
}

// run generates the house described by planPath into the document at
// docPath, prints the summary to stdout and optionally writes the JSON
// result to output.
func run(app *App, docPath, planPath, output string, stdout io.Writer) error {
	doc, err := app.OpenDocument(docPath)
	if err != nil {
		return err
	}
	plan, err := app.LoadPlan(planPath)
	if err != nil {
		return err
	}
	result, err := app.Generate(doc, plan)
	if err != nil {
		return err
	}

	fmt.Fprint(stdout, result.Summary)
	if output == "" {
		return nil
	}
	return writeResult(result, output, stdout)
}

func writeResult(result *Result, output string, stdout io.Writer) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')
	if output == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// cmd/tools/submit-application/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"loan-intake/internal/common/config"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/form"
	"loan-intake/internal/models"
	"loan-intake/pkg/registry"
)

func main() {
	fixturePath := flag.String("file", "", "Path to the application fixture (YAML)")
	relayURL := flag.String("relay", "", "Relay base URL (overrides config and fixture)")
	registryPath := flag.String("registry", "", "Document registry JSON (defaults to documents.registry_path, then all documents required)")
	dryRun := flag.Bool("dry-run", false, "Validate every step without submitting")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Println("Error: -file is required.")
		flag.Usage()
		os.Exit(1)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.NewStructured(level, "console", "stderr")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	fx, err := loadFixture(*fixturePath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	docs, err := loadDocuments(firstNonEmpty(*registryPath, cfg.Documents.RegistryPath))
	if err != nil {
		fmt.Printf("Error loading registry: %v\n", err)
		os.Exit(1)
	}

	formConfig := form.DefaultConfig()
	formConfig.RelayURL = firstNonEmpty(*relayURL, fx.RelayURL, cfg.Client.RelayURL, formConfig.RelayURL)
	formConfig.Timeout = config.GetDuration(cfg.Client.Timeout)
	formConfig.Retries = cfg.Client.Retries
	if cfg.Relay.MaxFileSize > 0 {
		formConfig.MaxFileSize = cfg.Relay.MaxFileSize
	}
	if err := formConfig.Validate(); err != nil {
		fmt.Printf("Invalid client configuration: %v\n", err)
		os.Exit(1)
	}

	engine := form.New(form.Options{
		Config:    formConfig,
		Documents: docs,
		Submitter: form.NewRelayClient(form.RelayClientOptions{Config: formConfig, Logger: log}),
		Logger:    log,
	})

	if ok := fill(engine, fx, docs); !ok {
		os.Exit(1)
	}

	for {
		step := engine.Step()
		if !engine.Advance() {
			printStepErrors(step, engine.Errors())
			os.Exit(1)
		}
		fmt.Printf("✓ %s\n", step.Title())
		if step == form.LastStep {
			break
		}
	}

	if *dryRun {
		fmt.Println("Application is complete (dry run, nothing submitted).")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Submitting to %s ...\n", formConfig.RelayURL)
	result, err := engine.Submit(ctx)
	if err != nil {
		if n := engine.Notice(); n != nil {
			fmt.Printf("%s: %s\n", n.Title, n.Description)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	n := engine.Notice()
	fmt.Printf("%s %s\n", n.Title, n.Description)
	fmt.Printf("Reference: %s\n", result.ReferenceID)
}

// fill copies the fixture into the engine, reporting every rejected value.
// loadDocuments reads the registry at path, or returns the built-in one when path is empty.
func loadDocuments(path string) (*registry.DocumentRegistry, error) {
	if path == "" {
		return registry.DefaultRegistry(), nil
	}
	return registry.LoadRegistry(path)
}

func fill(engine *form.Engine, fx *Fixture, docs *registry.DocumentRegistry) bool {
	ok := true

	names := make([]string, 0, len(fx.Fields))
	for name := range fx.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := engine.SetField(name, fx.Fields[name]); err != nil {
			fmt.Printf("✗ field %s: %v\n", name, err)
			ok = false
		}
	}

	for _, kind := range models.DocumentKinds {
		path, present := fx.Documents[string(kind)]
		if !present {
			continue
		}
		file, err := fx.readDocument(path)
		if err != nil {
			fmt.Printf("✗ %s: %v\n", docs.Label(kind), err)
			ok = false
			continue
		}
		if err := engine.SetDocument(kind, file); err != nil {
			fmt.Printf("✗ %s: %s\n", docs.Label(kind), engine.Errors()[string(kind)])
			ok = false
		}
	}
	for name := range fx.Documents {
		if !models.IsDocumentKind(name) {
			fmt.Printf("✗ unknown document slot: %s\n", name)
			ok = false
		}
	}

	return ok
}

func printStepErrors(step form.Step, errs form.FieldErrors) {
	fmt.Printf("✗ %s\n", step.Title())
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("    %s: %s\n", name, errs[name])
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// cmd/tools/registry-check/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"loan-intake/internal/models"
	"loan-intake/pkg/registry"
)

const defaultPath = "configs/documents.json"

func main() {
	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	showCmd := flag.NewFlagSet("show", flag.ExitOnError)

	initPath := initCmd.String("path", defaultPath, "Path to registry file")
	force := initCmd.Bool("force", false, "Overwrite an existing file")

	updatePath := updateCmd.String("path", defaultPath, "Path to registry file")
	kind := updateCmd.String("kind", "", "Document kind (e.g., gst)")
	field := updateCmd.String("field", "", "Field to update (required, label, description)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultPath, "Path to registry file")
	showPath := showCmd.String("path", defaultPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		initCmd.Parse(os.Args[2:])
		if err := initRegistry(*initPath, *force); err != nil {
			fmt.Printf("Error writing registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default registry to %s\n", *initPath)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *kind == "" || *field == "" {
			fmt.Println("Error: kind and field are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateDocument(*updatePath, models.DocumentKind(*kind), *field, *value); err != nil {
			fmt.Printf("Error updating document: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated document %s, field %s to %q\n", *kind, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := loadChecked(*validatePath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d documents.\n", len(reg.Documents))

	case "show":
		showCmd.Parse(os.Args[2:])
		reg, err := loadChecked(*showPath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		show(reg)

	case "help":
		fallthrough
	default:
		help()
	}
}

func loadChecked(path string) (*registry.DocumentRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return reg, nil
}

func initRegistry(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	reg := registry.DefaultRegistry()
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return saveRegistry(reg, path)
}

func updateDocument(path string, kind models.DocumentKind, field, value string) error {
	reg, err := loadChecked(path)
	if err != nil {
		return err
	}

	found := false
	for i := range reg.Documents {
		if reg.Documents[i].Kind != kind {
			continue
		}
		found = true
		switch field {
		case "required":
			required, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid required value: %w", err)
			}
			reg.Documents[i].Required = required
		case "label":
			reg.Documents[i].Label = value
		case "description":
			reg.Documents[i].Description = value
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		break
	}

	if !found {
		return fmt.Errorf("document %s not found", kind)
	}
	if err := reg.Validate(); err != nil {
		return err
	}

	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return saveRegistry(reg, path)
}

func show(reg *registry.DocumentRegistry) {
	fmt.Printf("Registry version %s (updated %s)\n\n", reg.Version, reg.LastUpdated)

	reqs := reg.Requirements()
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tLABEL\tREQUIRED")
	for _, kind := range models.DocumentKinds {
		fmt.Fprintf(tw, "%s\t%s\t%t\n", kind, reg.Label(kind), reqs[kind])
	}
	tw.Flush()
}

// saveRegistry handles saving the registry to file
func saveRegistry(reg *registry.DocumentRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}

	return nil
}

func help() {
	fmt.Println(`
Usage: registry-check <command> [flags]

Commands:
  init      Write the default document registry
  update    Update one document's field
  validate  Validate the registry file against its schema
  show      Print every slot with its label and requirement
  help      Show this help message

Examples:
  registry-check init -path configs/documents.json
  registry-check update -kind gst -field required -value false
  registry-check validate -path configs/documents.json
  registry-check show

Use 'registry-check <command> -h' for more information about a command.
`)
}

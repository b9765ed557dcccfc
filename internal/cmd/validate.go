package cmd

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/nxtstudios/appship/internal/config"
)

//go:embed schemas/ship-config.v1.schema.json
var schemaFS embed.FS

var validateProject string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the ship.yaml configuration",
	Long: `Validate ship.yaml against its JSON Schema and the semantic rules the
release pipeline applies. A project without a ship.yaml uses the built-in
defaults and always validates.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateProject, "project", "p", "", "Application project root (default: current directory)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	root, err := projectRoot(validateProject)
	if err != nil {
		return err
	}

	configPath := filepath.Join(root, config.ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Println("ℹ️  No ship.yaml found; the built-in defaults will be used.")
		return nil
	}

	fmt.Println("🔍 Validating ship.yaml...")

	schemaBytes, err := schemaFS.ReadFile("schemas/ship-config.v1.schema.json")
	if err != nil {
		return fmt.Errorf("failed to load JSON schema: %w", err)
	}

	// gojsonschema validates JSON documents, so the YAML goes through a
	// generic decode and re-encode first.
	yamlBytes, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read ship.yaml: %w", err)
	}

	var document interface{}
	if err := yaml.Unmarshal(yamlBytes, &document); err != nil {
		return fmt.Errorf("failed to parse ship.yaml: %w", err)
	}

	jsonBytes, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to convert ship.yaml to JSON: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	documentLoader := gojsonschema.NewBytesLoader(jsonBytes)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		fmt.Println("\n❌ Validation failed with the following errors:")
		fmt.Println()
		for i, desc := range result.Errors() {
			fmt.Printf("%d. %s\n", i+1, desc.String())
			fmt.Printf("   Field: %s\n\n", desc.Field())
		}
		return fmt.Errorf("validation failed with %d errors", len(result.Errors()))
	}

	// Schema passed; apply the pipeline's semantic rules too.
	if _, err := config.Load(root); err != nil {
		return err
	}

	fmt.Println("✅ ship.yaml is valid!")
	return nil
}

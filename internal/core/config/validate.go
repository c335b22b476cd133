package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including file accessibility and endpoint syntax. The configPath argument
// specifies the config file location to validate (empty string skips the
// config file check). This calls Validate() first for basic structural
// validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		c.validateEnrichment(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Enrichment.Enabled && os.Getenv(c.Enrichment.APIKeyEnv) == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Enrichment",
			Item:     c.Enrichment.APIKeyEnv,
			Message:  "enrichment is enabled but the API key environment variable is not set; commands will use local parsing",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	var errs criterio.FieldErrorsBuilder

	if c.Enrichment.Endpoint != "" {
		u, err := url.Parse(c.Enrichment.Endpoint)
		if err != nil {
			errs = errs.Append("enrichment.endpoint", fmt.Errorf("invalid URL: %w", err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = errs.Append("enrichment.endpoint", fmt.Errorf("unsupported scheme %q", u.Scheme))
		}
	}

	if c.Enrichment.Enabled && c.Enrichment.APIKeyEnv == "" {
		errs = errs.Append("enrichment.api_key_env", fmt.Errorf("required when enrichment is enabled"))
	}

	return errs.ToError()
}

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/tui/keymap"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "service.base_url")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Editor width bounds, as a percentage of the body width.
const (
	MinEditorWidthPercent = 30
	MaxEditorWidthPercent = 80
)

// maxLogSizeMB caps logging.max_size_mb.
const maxLogSizeMB = 1000

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateService()...)
	errors = append(errors, c.validatePreview()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateKeys()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateService() []ValidationError {
	var errors []ValidationError

	if _, err := docservice.ParseBaseURL(c.Service.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "service.base_url",
			Value:   c.Service.BaseURL,
			Message: err.Error(),
		})
	}

	if c.Service.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "service.timeout_seconds",
			Value:   c.Service.TimeoutSeconds,
			Message: "must be non-negative (0 disables the timeout)",
		})
	}

	if strings.ContainsAny(c.Service.UserAgent, "\r\n") {
		errors = append(errors, ValidationError{
			Field:   "service.user_agent",
			Value:   c.Service.UserAgent,
			Message: "must be a single line",
		})
	}

	return errors
}

func (c *Config) validatePreview() []ValidationError {
	var errors []ValidationError

	if c.Preview.MaxBytes <= 0 {
		errors = append(errors, ValidationError{
			Field:   "preview.max_bytes",
			Value:   c.Preview.MaxBytes,
			Message: "must be positive",
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.EditorWidthPercent < MinEditorWidthPercent || c.TUI.EditorWidthPercent > MaxEditorWidthPercent {
		errors = append(errors, ValidationError{
			Field:   "tui.editor_width_percent",
			Value:   c.TUI.EditorWidthPercent,
			Message: fmt.Sprintf("must be between %d and %d", MinEditorWidthPercent, MaxEditorWidthPercent),
		})
	}

	if strings.TrimSpace(c.TUI.Theme) == "" {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: "cannot be empty",
		})
	}

	return errors
}

// validateKeys checks every override against the default keymap.
func (c *Config) validateKeys() []ValidationError {
	var errors []ValidationError

	names := make([]string, 0, len(c.Keys))
	for name := range c.Keys {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		field := "keys." + name
		if !keymap.IsFormCommand(keymap.Command(name)) {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   c.Keys[name],
				Message: "unknown command",
			})
			continue
		}
		if err := keymap.DefaultKeymap().Override(keymap.Command(name), c.Keys[name]); err != nil {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   c.Keys[name],
				Message: err.Error(),
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 || c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("must be between 1 and %d", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

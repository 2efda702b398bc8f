// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateExportFormat checks if a summary export format is supported.
func ValidateExportFormat(format string) error {
	switch format {
	case constants.OutputFormatCSV, constants.OutputFormatYAML, constants.OutputFormatText:
		return nil
	}
	return fmt.Errorf("expected export format of %s, %s or %s, got %s",
		constants.OutputFormatCSV, constants.OutputFormatYAML, constants.OutputFormatText, format)
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/strata/internal/coordinate"
	"github.com/roach88/strata/internal/key"
)

// KeyValidationResult holds the validate command's JSON payload.
type KeyValidationResult struct {
	Valid    bool          `json:"valid"`
	KeyType  string        `json:"key_type,omitempty"`
	Expected []key.TypeTag `json:"expected,omitempty"`
	Received []key.TypeTag `json:"received,omitempty"`
	Index    *int          `json:"index,omitempty"`
	Code     string        `json:"code,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var keyPath string
	var opLabel string

	cmd := &cobra.Command{
		Use:   "validate <registry-dir>",
		Short: "Validate a key against its family's declared hierarchy",
		Long: `Validate an item key (JSON fixture) against the coordinate registry.

The registry directory holds CUE coordinate declarations. The key's own type
tag selects the coordinate; the key's shape and location chain are then
checked against the declared hierarchy.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], keyPath, opLabel, cmd)
		},
	}

	cmd.Flags().StringVar(&keyPath, "key", "", "path to the key fixture (JSON)")
	cmd.Flags().StringVar(&opLabel, "op", "cli.validate", "operation label for diagnostics")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func runValidate(opts *RootOptions, registryDir, keyPath, opLabel string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reg, err := LoadRegistry(registryDir)
	if err != nil {
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d coordinate(s) from %s", reg.Len(), registryDir)

	k, err := LoadKeyFixture(keyPath)
	if err != nil {
		return commandError(formatter, err)
	}

	coord, ok := reg.Lookup(k.Type())
	if !ok {
		_ = formatter.Error(ErrCodeUnknownFamily,
			fmt.Sprintf("no coordinate registered for type %q", k.Type()), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown item family %q", k.Type()))
	}

	if err := coordinate.ValidateKey(k, coord, opLabel); err != nil {
		var ve *coordinate.ValidationError
		if errors.As(err, &ve) {
			result := KeyValidationResult{
				Valid:    false,
				KeyType:  string(k.Type()),
				Expected: ve.Expected,
				Received: ve.Received,
				Code:     string(ve.Code),
				Message:  ve.Message,
			}
			if ve.Index >= 0 {
				idx := ve.Index
				result.Index = &idx
			}
			return outputInvalidKey(formatter, result)
		}
		return commandError(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(KeyValidationResult{Valid: true, KeyType: string(k.Type())})
	}
	fmt.Fprintf(formatter.Writer, "✓ key valid against %s\n", coord)
	return nil
}

func outputInvalidKey(formatter *OutputFormatter, result KeyValidationResult) error {
	if formatter.Format == "json" {
		_ = formatter.Error(ErrCodeInvalidKey, result.Message, result)
		return NewExitError(ExitFailure, result.Message)
	}

	fmt.Fprintln(formatter.Writer, "✗ key invalid")
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", result.Code, result.Message)
	fmt.Fprintf(formatter.Writer, "  expected: %v\n", result.Expected)
	fmt.Fprintf(formatter.Writer, "  received: %v\n", result.Received)
	if result.Index != nil {
		fmt.Fprintf(formatter.Writer, "  diverges at index %d\n", *result.Index)
	}
	return NewExitError(ExitFailure, result.Message)
}

// commandError reports a load/fixture error and exits with a command error.
func commandError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, loadErr.Message, err)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, err.Error(), err)
}

package cli

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli/styles"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
	Out   io.Writer
	Err   io.Writer
}

type idGetter interface{ GetID() int }

// NewFormatter reads the --json and --quiet flags and writes to the command's
// output streams
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

// AddOutputFlags registers the agent-friendly output flags
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")
}

// Machine reports whether output goes to a program rather than a person
func (f *OutputFormatter) Machine() bool {
	return f.JSON || f.Quiet
}

// Success outputs a successful operation result. In quiet mode values with an
// ID (or slices of them) print one ID per line.
func (f *OutputFormatter) Success(data any) error {
	if f.Quiet {
		if ids, ok := collectIDs(data); ok {
			for _, id := range ids {
				fmt.Fprintf(f.out(), "%d\n", id)
			}
			return nil
		}
	}

	if f.JSON {
		return sonic.ConfigStd.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	}

	// Human-readable format
	_, err := fmt.Fprintf(f.out(), "%+v\n", data)
	return err
}

// Print writes human-readable text
func (f *OutputFormatter) Print(text string) {
	fmt.Fprintln(f.out(), text)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return sonic.ConfigStd.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	fmt.Fprintf(f.errOut(), "%s %s\n", styles.ErrorStyle.Render("Error:"), message)
	if suggestion != "" {
		fmt.Fprintf(f.errOut(), "%s %s\n", styles.SubtitleStyle.Render("Suggestion:"), suggestion)
	}
	return nil
}

// Fail reports err and returns it wrapped with its exit code
func (f *OutputFormatter) Fail(err error) error {
	return f.FailWithSuggestion(err, "")
}

// FailWithSuggestion is Fail with a hint for the user
func (f *OutputFormatter) FailWithSuggestion(err error, suggestion string) error {
	code, exit := Classify(err)
	_ = f.ErrorWithSuggestion(code, err.Error(), suggestion)
	return &ExitError{Code: exit, Err: err}
}

// Usage reports a usage error (bad flag combination, bad argument)
func (f *OutputFormatter) Usage(err error) error {
	_ = f.Error("USAGE_ERROR", err.Error())
	return &ExitError{Code: ExitUsage, Err: err}
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}

func collectIDs(data any) ([]int, bool) {
	if g, ok := data.(idGetter); ok {
		return []int{g.GetID()}, true
	}
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return nil, false
	}
	ids := make([]int, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		g, ok := v.Index(i).Interface().(idGetter)
		if !ok {
			return nil, false
		}
		ids = append(ids, g.GetID())
	}
	return ids, true
}

package lookup

import (
	"context"
	"encoding/json"
	"fmt"

	"nathanbeddoewebdev/swatch/internal/dispatch"
	"nathanbeddoewebdev/swatch/internal/palette"
	"nathanbeddoewebdev/swatch/internal/tui"

	"github.com/spf13/cobra"
)

// BatchCommand returns the "batch" command.
func BatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <value>...",
		Short: "Generate palettes for several colors at once",
		Long: `Fetch palettes for several colors concurrently.

Each value is classified on its own: "#..." is a hex color, a value with
commas is an RGB color and anything else is a color name. A failed lookup
is reported and does not stop the others.

Examples:
  swatch batch ocean '#ff8800' 30,144,255
  swatch batch red green blue --json`,
		Args:         cobra.MinimumNArgs(1),
		RunE:         runBatch,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("json", false, "Print the palettes as JSON")
	cmd.Flags().Int("concurrency", 4, "Maximum number of requests in flight")

	return cmd
}

type batchEntryJSON struct {
	Mode    dispatch.Mode     `json:"mode"`
	Value   string            `json:"value"`
	Palette *palette.Response `json:"palette,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", concurrency)
	}

	client, err := newCommandClient(cmd)
	if err != nil {
		return err
	}

	reqs := make([]dispatch.Request, len(args))
	for i, arg := range args {
		mode := dispatch.Detect(arg)
		req, err := dispatch.Normalize(mode, arg)
		if err != nil {
			// Keep the raw value; the fetch reports the validation error.
			req = dispatch.Request{Mode: mode, Value: arg}
		}
		reqs[i] = req
	}

	var results []dispatch.Result
	run := func(ctx context.Context) error {
		results = dispatch.Batch(ctx, client, reqs, concurrency)
		return nil
	}
	if isTerminal() {
		title := fmt.Sprintf("Generating %d palettes...", len(reqs))
		if err := tui.WithSpinner(cmd.Context(), title, run); err != nil {
			return err
		}
	} else if err := run(cmd.Context()); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		if err := printBatchJSON(cmd, results); err != nil {
			return err
		}
	} else {
		printBatchText(cmd, results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(results))
	}
	return nil
}

func printBatchText(cmd *cobra.Command, results []dispatch.Result) {
	out := cmd.OutOrStdout()
	display := textDisplay{w: out}
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s %q\n", res.Request.Mode, res.Request.Value)
		if res.Err != nil {
			fmt.Fprintf(out, "  Error: %v\n", res.Err)
			continue
		}
		display.Show(palette.Render(res.Response))
	}
}

func printBatchJSON(cmd *cobra.Command, results []dispatch.Result) error {
	entries := make([]batchEntryJSON, len(results))
	for i, res := range results {
		entries[i] = batchEntryJSON{Mode: res.Request.Mode, Value: res.Request.Value}
		if res.Err != nil {
			entries[i].Error = res.Err.Error()
			continue
		}
		resp := res.Response
		entries[i].Palette = &resp
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

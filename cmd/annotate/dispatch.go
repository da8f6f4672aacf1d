package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/annotate"
	"github.com/aretw0/annotate/pkg/core"
	"github.com/aretw0/annotate/pkg/dispatch"
)

var (
	dispatchOpen  string
	dispatchMerge string
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch [action] [key=value...]",
	Short: "Run a single remote action and print its response",
	Long: `Run a remote action against a fresh session and print the response envelope as JSON.
Fields are passed as key=value pairs; JSON-valued fields must be quoted, e.g.

  annotate dispatch createSpan type=PER 'offsets=[[0,4]]' --open ned/ned.train-doc-75`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(args[1:])
		if err != nil {
			return err
		}

		var merge map[string]any
		if dispatchMerge != "" {
			if err := json.Unmarshal([]byte(dispatchMerge), &merge); err != nil {
				return fmt.Errorf("invalid --merge: %w", err)
			}
		}

		d, err := newDispatcher()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if dispatchOpen != "" {
			if err := openDocument(ctx, d, dispatchOpen); err != nil {
				return err
			}
		}

		env, err := dispatchAndWait(ctx, d, dispatch.Request{Action: args[0], Fields: fields, Merge: merge})
		if err != nil {
			return err
		}
		return writeEnvelope(os.Stdout, env, true)
	},
}

// parseFields turns key=value arguments into request fields.
func parseFields(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", arg)
		}
		fields[k] = v
	}
	return fields, nil
}

// openDocument loads collection/name into the session before an edit.
func openDocument(ctx context.Context, d *annotate.Dispatcher, ref string) error {
	collection, name := path.Split(ref)
	_, err := dispatchAndWait(ctx, d, dispatch.NewRequest(dispatch.ActionGetDocument,
		map[string]string{"collection": collection, "document": name}, nil))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", ref, err)
	}
	if !d.Session().Loaded() {
		return fmt.Errorf("failed to open %s: %w", ref, core.ErrFixtureNotFound)
	}
	return nil
}

// dispatchAndWait runs req and waits for a fallback load if one was started.
// A fallback that fails never produces a response; that surfaces as ErrFixtureNotFound.
func dispatchAndWait(ctx context.Context, d *annotate.Dispatcher, req dispatch.Request) (core.Envelope, error) {
	var env *core.Envelope
	next := req.Callback
	req.Callback = func(e core.Envelope) {
		env = &e
		if next != nil {
			next(e)
		}
	}

	if err := d.Dispatch(ctx, req); err != nil {
		return core.Envelope{}, err
	}
	d.Wait()

	if env == nil {
		return core.Envelope{}, fmt.Errorf("%s: no response: %w", req.Action, core.ErrFixtureNotFound)
	}
	return *env, nil
}

func writeEnvelope(w io.Writer, env core.Envelope, indent bool) error {
	encoder := json.NewEncoder(w)
	if indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(env); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(dispatchCmd)
	dispatchCmd.Flags().StringVar(&dispatchOpen, "open", "", "Open collection/document before dispatching")
	dispatchCmd.Flags().StringVar(&dispatchMerge, "merge", "", "JSON object merged into fixture responses")
}

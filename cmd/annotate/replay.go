package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/annotate/pkg/dispatch"
)

// replayStep is one action of a replay script.
type replayStep struct {
	Action string            `yaml:"action"`
	Fields map[string]string `yaml:"fields"`
	Merge  map[string]any    `yaml:"merge"`
}

// replayScript is a YAML file listing actions to run in order against one session.
//
//	steps:
//	  - action: getDocument
//	    fields: {collection: ned, document: ned.train-doc-75}
//	  - action: createSpan
//	    fields: {type: PER, offsets: "[[0,4]]"}
type replayScript struct {
	Steps []replayStep `yaml:"steps"`
}

var replayKeepGoing bool

var replayCmd = &cobra.Command{
	Use:   "replay [script.yaml]",
	Short: "Replay a scripted annotation session",
	Long:  `Run every step of a YAML script against one session and print each response as a JSON line.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var script replayScript
		if err := yaml.Unmarshal(data, &script); err != nil {
			return fmt.Errorf("invalid script %s: %w", args[0], err)
		}
		if len(script.Steps) == 0 {
			return fmt.Errorf("script %s has no steps", args[0])
		}

		d, err := newDispatcher()
		if err != nil {
			return err
		}

		failed := 0
		for i, step := range script.Steps {
			env, err := dispatchAndWait(cmd.Context(), d, dispatch.Request{
				Action: step.Action,
				Fields: step.Fields,
				Merge:  step.Merge,
			})
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "step %d (%s): %v\n", i+1, step.Action, err)
				if !replayKeepGoing {
					return fmt.Errorf("replay stopped at step %d", i+1)
				}
				continue
			}
			if err := writeEnvelope(os.Stdout, env, false); err != nil {
				return err
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d steps failed", failed, len(script.Steps))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayKeepGoing, "keep-going", false, "Continue after a failed step")
}

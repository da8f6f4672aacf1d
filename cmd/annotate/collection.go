package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aretw0/annotate/pkg/core"
	"github.com/aretw0/annotate/pkg/dispatch"
)

var collectionJSON bool

var collectionCmd = &cobra.Command{
	Use:   "collection [path]",
	Short: "List the documents of a collection",
	Long:  `Fetch getCollectionInformation for a collection (default: the root) and print its listing.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		collection := "/"
		if len(args) == 1 {
			collection = args[0]
		}

		d, err := newDispatcher()
		if err != nil {
			return err
		}

		env, err := dispatchAndWait(cmd.Context(), d, dispatch.NewRequest(dispatch.ActionGetCollectionInfo,
			map[string]string{"collection": collection}, nil))
		if err != nil {
			return err
		}

		if collectionJSON {
			return writeEnvelope(os.Stdout, env, true)
		}

		info, err := collectionOf(env)
		if err != nil {
			return err
		}
		return printListing(info)
	},
}

// collectionOf returns the listing carried by env, decoding fixture payloads when needed.
func collectionOf(env core.Envelope) (*core.CollectionInfo, error) {
	if env.Collection != nil {
		return env.Collection, nil
	}
	data, err := json.Marshal(env.Fields)
	if err != nil {
		return nil, err
	}
	var info core.CollectionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("response is not a collection listing: %w", err)
	}
	return &info, nil
}

func printListing(info *core.CollectionInfo) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tMODIFIED\tENTITIES\tRELATIONS\tEVENTS")

	docs, entities := 0, 0
	for _, item := range info.Items {
		modified := "-"
		if item.Modified != nil {
			sec := int64(*item.Modified)
			modified = humanize.Time(time.Unix(sec, 0))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.Kind, item.Name, modified, count(item.Entities), count(item.Relations), count(item.Events))

		if item.IsDocument() {
			docs++
			if item.Entities != nil {
				entities += *item.Entities
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	types := make([]string, 0, len(info.EntityTypes))
	for _, et := range info.EntityTypes {
		types = append(types, et.Type)
	}
	fmt.Printf("\n%s documents, %s entities, entity types: %v\n",
		humanize.Comma(int64(docs)), humanize.Comma(int64(entities)), types)
	return nil
}

func count(n *int) string {
	if n == nil {
		return "-"
	}
	return humanize.Comma(int64(*n))
}

func init() {
	rootCmd.AddCommand(collectionCmd)
	collectionCmd.Flags().BoolVar(&collectionJSON, "json", false, "Print the raw response envelope")
}

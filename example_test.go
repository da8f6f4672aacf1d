package annotate_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/annotate"
	"github.com/aretw0/annotate/pkg/core"
	"github.com/aretw0/annotate/pkg/dispatch"
)

// Example_basic demonstrates annotating the built-in document through the bus.
func Example_basic() {
	d, err := annotate.New("")
	if err != nil {
		log.Fatal(err)
	}

	show := func(env core.Envelope) {
		if env.Document != nil {
			fmt.Printf("%s: %d entities\n", env.Action, len(env.Document.Entities))
			return
		}
		fmt.Printf("%s: edited %v\n", env.Action, env.Edited)
	}

	d.Bus().Post(core.EventAjax, dispatch.NewRequest(dispatch.ActionGetDocument, nil, show))
	d.Bus().Post(core.EventAjax, dispatch.NewRequest(dispatch.ActionCreateSpan,
		map[string]string{"type": "ORG", "offsets": "[[0,8]]"}, show))
	// Output:
	// getDocument: 10 entities
	// createSpan: edited [[T11]]
}

// ExampleNew_fixtures demonstrates serving a document from a standoff pair on disk.
func ExampleNew_fixtures() {
	root, err := os.MkdirTemp("", "annotate-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(root)

	os.WriteFile(filepath.Join(root, "doc.txt"), []byte("Ada woont in Delft ."), 0644)
	os.WriteFile(filepath.Join(root, "doc.ann"), []byte("T1\tPER 0 3\tAda\nT2\tLOC 13 18\tDelft\n"), 0644)

	d, err := annotate.New(root)
	if err != nil {
		log.Fatal(err)
	}

	d.Bus().Post(core.EventAjax, dispatch.NewRequest(dispatch.ActionGetDocument,
		map[string]string{"document": "doc"}, func(env core.Envelope) {
			for _, e := range env.Document.Entities {
				fmt.Println(e.ID, e.Type, e.Spans[0].Start, e.Spans[0].End)
			}
		}))
	d.Wait()
	// Output:
	// T1 PER 0 3
	// T2 LOC 13 18
}

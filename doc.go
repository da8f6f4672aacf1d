// Package annotate is the Composition Root for an offline entity annotation backend.
//
// A browser-based annotation editor talks to its server through a small set of
// remote actions (getDocument, createSpan, deleteSpan, ...). This module answers
// those actions locally: requests travel over an in-process event bus, a
// dispatcher edits the current document held by a session, and anything it has
// no canned answer for is loaded from fixture files on disk.
//
// Features:
//
//   - **Event Bus**: synchronous, re-entrant publish/subscribe (`core.Bus`).
//   - **Entity Editing**: create, update and delete spans with undo tokens and comments.
//   - **Fixture Fallback**: asynchronous, timeout-bound loads of `.data.js`, `.json` and `.yaml` fixtures.
//   - **Standoff Import**: documents built on the fly from `.txt` + `.ann` pairs.
//   - **Watching**: fixture changes reported through fsnotify and the lifecycle worker model.
//
// Usage:
//
//	d, err := annotate.New("./offline_data",
//		annotate.WithUser("crunchy"),
//		annotate.WithLogger(logger),
//	)
//
//	d.Bus().Post(core.EventAjax, dispatch.NewRequest(dispatch.ActionCreateSpan,
//		map[string]string{"type": "PER", "offsets": "[[0,4]]"}, onResponse))
package annotate

package dispatch

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/aretw0/annotate/pkg/core"
)

// DefaultDocument names the canned document served when a request names none.
const DefaultDocument = "ned.train-doc-75"

//go:embed fixtures/document.json
var documentFixture []byte

//go:embed fixtures/collection.json
var collectionFixture []byte

// CannedDocument returns a fresh copy of the built-in document fixture.
func CannedDocument() *core.Document {
	var doc core.Document
	if err := json.Unmarshal(documentFixture, &doc); err != nil {
		panic(fmt.Sprintf("dispatch: embedded document fixture: %v", err))
	}
	return &doc
}

// CannedCollection returns a fresh copy of the built-in collection fixture.
func CannedCollection() *core.CollectionInfo {
	var info core.CollectionInfo
	if err := json.Unmarshal(collectionFixture, &info); err != nil {
		panic(fmt.Sprintf("dispatch: embedded collection fixture: %v", err))
	}
	return &info
}

func (d *Dispatcher) cannedDocument(name string) (*core.Document, bool) {
	if doc, ok := d.opts.cannedDocuments[name]; ok {
		return doc.Clone(), true
	}
	if name == "" || name == DefaultDocument {
		return CannedDocument(), true
	}
	return nil, false
}

func isRootCollection(collection string) bool {
	return collection == "" || collection == "/"
}

// documentPath is the fixture file holding a getDocument response.
func documentPath(collection, document string) string {
	return path.Join("/", collection, document+".data.js")
}

// collectionPath is the fixture file holding a getCollectionInformation response.
func collectionPath(collection string) string {
	return path.Join("/", collection, "collection.js")
}

// fixtureName strips the leading slash used by request paths.
func fixtureName(p string) string {
	return strings.TrimPrefix(p, "/")
}

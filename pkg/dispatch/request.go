package dispatch

import "github.com/aretw0/annotate/pkg/core"

// Action names a remote operation understood by the dispatcher.
type Action string

const (
	ActionGetDocument       Action = "getDocument"
	ActionGetCollectionInfo Action = "getCollectionInformation"
	ActionLoadConf          Action = "loadConf"
	ActionCreateSpan        Action = "createSpan"
	ActionDeleteSpan        Action = "deleteSpan"
	ActionWhoAmI            Action = "whoami"
	ActionStoreSVG          Action = "storeSVG"
)

// Actions lists every action in the routing table.
func Actions() []Action {
	return []Action{
		ActionGetDocument,
		ActionGetCollectionInfo,
		ActionLoadConf,
		ActionCreateSpan,
		ActionDeleteSpan,
		ActionWhoAmI,
		ActionStoreSVG,
	}
}

// Request is a remote action posted on the bus under core.EventAjax.
type Request struct {
	Action string
	// Fields are the form-encoded payload fields; JSON-valued fields such as
	// "offsets" and "attributes" are passed as strings.
	Fields map[string]string
	// Merge is copied onto payloads served by the fixture fallback before delivery.
	Merge map[string]any
	// Callback receives the response envelope.
	Callback func(core.Envelope)
	// OnError receives errors that prevent a response from being produced.
	OnError func(error)
}

// NewRequest builds a request for action with the given fields.
func NewRequest(action Action, fields map[string]string, callback func(core.Envelope)) Request {
	return Request{Action: string(action), Fields: fields, Callback: callback}
}

// requestFrom accepts either a Request (or *Request) or the positional form
// (fields map carrying "action", callback, merge).
func requestFrom(args []any) (Request, bool) {
	if len(args) == 0 {
		return Request{}, false
	}
	switch v := args[0].(type) {
	case Request:
		return v, true
	case *Request:
		if v == nil {
			return Request{}, false
		}
		return *v, true
	case map[string]string:
		req := Request{Action: v["action"], Fields: v}
		if len(args) > 1 {
			req.Callback, _ = args[1].(func(core.Envelope))
		}
		if len(args) > 2 {
			req.Merge, _ = args[2].(map[string]any)
		}
		return req, true
	}
	return Request{}, false
}

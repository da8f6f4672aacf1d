package dispatch

import (
	"context"

	"github.com/aretw0/annotate/pkg/core"
)

func (d *Dispatcher) getDocument(ctx context.Context, req Request, p documentPayload) (*core.Envelope, error) {
	doc, ok := d.cannedDocument(p.Document)
	if !ok {
		return nil, d.fallback(ctx, req, documentPath(p.Collection, p.Document))
	}

	name := p.Document
	if name == "" {
		name = DefaultDocument
	}
	d.session.Load(doc, p.Collection, name)

	env := core.NewEnvelope(req.Action)
	env.Document = doc.Clone()
	return &env, nil
}

func (d *Dispatcher) getCollectionInformation(ctx context.Context, req Request, p collectionPayload) (*core.Envelope, error) {
	if !isRootCollection(p.Collection) {
		return nil, d.fallback(ctx, req, collectionPath(p.Collection))
	}

	env := core.NewEnvelope(req.Action)
	env.Collection = CannedCollection()
	return &env, nil
}

func (d *Dispatcher) loadConf(ctx context.Context, req Request, _ noPayload) (*core.Envelope, error) {
	env := core.NewEnvelope(req.Action)
	return &env, nil
}

func (d *Dispatcher) whoami(ctx context.Context, req Request, _ noPayload) (*core.Envelope, error) {
	env := core.NewEnvelope(req.Action)
	env.Fields = map[string]any{"user": d.opts.user}
	return &env, nil
}

// storeSVG accepts the export and discards it.
func (d *Dispatcher) storeSVG(ctx context.Context, req Request, _ noPayload) (*core.Envelope, error) {
	env := core.NewEnvelope(req.Action)
	env.Fields = map[string]any{"user": nil}
	return &env, nil
}

// createSpan creates an entity, or updates it when the payload names an id.
func (d *Dispatcher) createSpan(ctx context.Context, req Request, p createSpanPayload) (*core.Envelope, error) {
	spans, err := parseOffsets(p.Offsets)
	if err != nil {
		return nil, err
	}
	attrs, err := parseAttributes(p.Attributes)
	if err != nil {
		return nil, err
	}

	var touched, undo string
	doc, err := d.session.Edit(func(a *core.Annotations) error {
		if p.ID == "" {
			e := a.CreateEntity(p.Type, spans, p.Comment, attrs)
			touched = e.ID
			undo, err = createdToken(e.ID, attrs)
			return err
		}

		prev, existed := a.Entity(p.ID)
		prevComment, _ := a.Comment(p.ID)
		e := a.UpdateEntity(p.ID, p.Type, spans, p.Comment, attrs)
		touched = e.ID
		if existed {
			undo, err = restoredToken("mod_tb", prev, prevComment.Text)
		} else {
			undo, err = createdToken(e.ID, attrs)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if d.opts.logger != nil {
		d.opts.logger.Info("span saved", "id", touched, "type", p.Type, "update", p.ID != "")
	}

	env := core.NewEnvelope(req.Action)
	env.Edited = [][]string{{touched}}
	env.Undo = undo
	env.Annotations = doc
	return &env, nil
}

// deleteSpan removes an entity and its comment. A missing or unknown id leaves
// the document untouched.
func (d *Dispatcher) deleteSpan(ctx context.Context, req Request, p deleteSpanPayload) (*core.Envelope, error) {
	edited := [][]string{}
	var undo string

	doc, err := d.session.Edit(func(a *core.Annotations) error {
		if p.ID == "" {
			return nil
		}
		prev, ok := a.Entity(p.ID)
		if !ok {
			return nil
		}
		comment, _ := a.Comment(p.ID)
		a.DeleteEntity(p.ID)
		edited = append(edited, []string{p.ID})

		var err error
		undo, err = restoredToken("del_tb", prev, comment.Text)
		return err
	})
	if err != nil {
		return nil, err
	}

	if d.opts.logger != nil && len(edited) > 0 {
		d.opts.logger.Info("span deleted", "id", p.ID)
	}

	env := core.NewEnvelope(req.Action)
	env.Edited = edited
	env.Undo = undo
	env.Annotations = doc
	return &env, nil
}

// Package generate is the batch document-generation engine: it resolves a
// template's placeholder set against a snapshot of the value matrix and
// renders one output per requested client, in request order.
package generate

import (
	"context"
	"fmt"

	"docgen/internal/docx"
	"docgen/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Generator orchestrates one generation batch end to end: template load,
// snapshot, bounded-parallel rendering, packaging and history recording.
type Generator struct {
	templates TemplateSource
	catalog   CatalogSource
	outputs   OutputStore
	history   HistorySink
	converter Converter
	workers   int
	log       zerolog.Logger
}

// Options carries the optional pieces of a Generator.
type Options struct {
	// Workers bounds per-client rendering concurrency. Values below one
	// fall back to serial rendering.
	Workers int
	// Converter enables PDF output; nil rejects format=pdf requests.
	Converter Converter
	Logger    zerolog.Logger
}

func New(templates TemplateSource, catalog CatalogSource, outputs OutputStore, history HistorySink, opts Options) *Generator {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Generator{
		templates: templates,
		catalog:   catalog,
		outputs:   outputs,
		history:   history,
		converter: opts.Converter,
		workers:   workers,
		log:       opts.Logger,
	}
}

// Request is one generation batch: one template, an ordered list of client
// ids (repeats allowed, each rendered independently), a missing-value
// policy and an output format.
type Request struct {
	TemplateID uint
	ClientIDs  []uint
	OnMissing  Policy
	Format     Format
}

// Result is the packaged artifact plus the stored output paths (one per
// entry, input order) and any secondary warnings.
type Result struct {
	Artifact
	OutputPaths []string
	Warnings    []string
}

// Generate runs one batch. All-or-nothing: any rendering error, an
// unresolvable key, or a missing value under PolicyFail aborts with no
// artifact and no history. Output persistence and history recording
// failures after packaging degrade to warnings.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if len(req.ClientIDs) == 0 {
		return nil, ErrNoClients
	}
	if req.Format == FormatPDF && g.converter == nil {
		return nil, fmt.Errorf("%w: pdf output not configured", ErrStoreUnavailable)
	}

	tpl, err := g.templates.Template(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	content, err := g.templates.Content(ctx, tpl)
	if err != nil {
		return nil, err
	}

	keys, err := docx.ExtractPlaceholders(content)
	if err != nil {
		return nil, err
	}

	snap, err := g.takeSnapshot(ctx, req.ClientIDs)
	if err != nil {
		return nil, err
	}

	// A key with no entity behind it is a configuration error, not a
	// per-client condition; it aborts regardless of policy.
	if key, bad := snap.unresolvable(keys); bad {
		return nil, &UnresolvableKeyError{Key: key}
	}

	if req.OnMissing == PolicyFail {
		for _, clientID := range req.ClientIDs {
			for _, key := range keys {
				if _, ok := snap.resolve(key, clientID); !ok {
					return nil, &MissingValueError{Key: key, ClientID: clientID}
				}
			}
		}
	}

	items := make([]rendered, len(req.ClientIDs))
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(g.workers)
	for i, clientID := range req.ClientIDs {
		grp.Go(func() error {
			mapping := make(map[string]string, len(keys))
			for _, key := range keys {
				text, ok := snap.resolve(key, clientID)
				switch {
				case ok:
					mapping[key] = text
				case req.OnMissing == PolicyEmpty:
					mapping[key] = ""
					// PolicySkip: not in the mapping, literal key stays.
				}
			}

			out, err := docx.Render(content, mapping)
			if err != nil {
				return err
			}
			if req.Format == FormatPDF {
				out, err = g.converter.Convert(grpCtx, tpl.Filename, out)
				if err != nil {
					return fmt.Errorf("%w: pdf conversion: %v", ErrStoreUnavailable, err)
				}
			}

			items[i] = rendered{clientID: clientID, clientName: snap.clients[clientID].Name, data: out}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	artifact, err := packageOutputs(tpl.Filename, req.Format, items)
	if err != nil {
		return nil, err
	}

	generationID := uuid.New().String()
	paths := make([]string, len(artifact.Entries))
	var warnings []string
	for i, entry := range artifact.Entries {
		objectName := fmt.Sprintf("outputs/%s/%s", generationID, entry.Name)
		paths[i] = objectName
		if err := g.outputs.Put(ctx, objectName, contentTypeFor(req.Format), items[i].data); err != nil {
			g.log.Warn().Err(err).Str("object", objectName).Msg("failed to persist generated output")
			warnings = append(warnings, "output not persisted: "+objectName)
		}
	}

	records := make([]models.GenerationRecord, len(artifact.Entries))
	for i, entry := range artifact.Entries {
		records[i] = models.GenerationRecord{
			TemplateID: tpl.ID,
			ClientID:   entry.ClientID,
			OutputPath: paths[i],
		}
	}
	if err := g.history.Append(ctx, records); err != nil {
		g.log.Warn().Err(err).Uint("template_id", tpl.ID).Msg("failed to record generation history")
		warnings = append(warnings, "history not recorded")
	}

	g.log.Info().
		Uint("template_id", tpl.ID).
		Int("clients", len(req.ClientIDs)).
		Str("on_missing", string(req.OnMissing)).
		Str("format", string(req.Format)).
		Str("generation_id", generationID).
		Msg("generation completed")

	return &Result{Artifact: *artifact, OutputPaths: paths, Warnings: warnings}, nil
}

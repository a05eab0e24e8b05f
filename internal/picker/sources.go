package picker

import (
	"context"
	"fmt"

	"github.com/runger/symnav/internal/outline"
	"github.com/runger/symnav/internal/source"
)

// PayloadProvider serves listings decoded from a captured payload. The
// format is auto-detected on first fetch; built listings are cached per
// buffer revision so repeated fetches for an unchanged buffer are free.
type PayloadProvider struct {
	payload   []byte
	blocklist []string
	sessions  *source.Sessions
}

// NewPayloadProvider wraps a raw payload. sessions may be nil to disable
// caching.
func NewPayloadProvider(payload []byte, blocklist []string, sessions *source.Sessions) *PayloadProvider {
	return &PayloadProvider{payload: payload, blocklist: blocklist, sessions: sessions}
}

// Fetch implements Provider.
func (p *PayloadProvider) Fetch(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if items, ok := p.cached(req); ok {
		return Response{RequestID: req.RequestID, Items: items, Buffer: req.Buffer}, nil
	}

	prov, err := source.Detect(p.payload, req.Buffer)
	if err != nil {
		return Response{}, err
	}
	listing, err := prov.Decode(p.payload)
	if err != nil {
		return Response{}, fmt.Errorf("failed to decode %s payload: %w", prov.Name(), err)
	}

	items := outline.BuildItems(listing.Symbols, outline.BuildOptions{Blocklist: p.blocklist})
	buffer := listing.Buffer
	if buffer == "" {
		buffer = req.Buffer
	}
	p.store(req, items)
	return Response{RequestID: req.RequestID, Items: items, Buffer: buffer}, nil
}

func (p *PayloadProvider) cached(req Request) ([]*outline.Item, bool) {
	if p.sessions == nil || req.Buffer == "" || req.Revision == "" {
		return nil, false
	}
	return p.sessions.Get(req.Buffer, req.Revision)
}

func (p *PayloadProvider) store(req Request, items []*outline.Item) {
	if p.sessions == nil || req.Buffer == "" || req.Revision == "" {
		return
	}
	p.sessions.Put(req.Buffer, req.Revision, items)
}

// TagsProvider generates listings by running the configured ctags command
// on a target file.
type TagsProvider struct {
	command   string
	target    string
	blocklist []string
	sessions  *source.Sessions
}

// NewTagsProvider builds a provider running cmdline against target.
// sessions may be nil to disable caching.
func NewTagsProvider(cmdline, target string, blocklist []string, sessions *source.Sessions) *TagsProvider {
	return &TagsProvider{command: cmdline, target: target, blocklist: blocklist, sessions: sessions}
}

// Fetch implements Provider.
func (p *TagsProvider) Fetch(ctx context.Context, req Request) (Response, error) {
	if p.sessions != nil && req.Revision != "" {
		if items, ok := p.sessions.Get(p.target, req.Revision); ok {
			return Response{RequestID: req.RequestID, Items: items, Buffer: p.target}, nil
		}
	}

	data, err := source.RunTags(ctx, p.command, p.target)
	if err != nil {
		return Response{}, err
	}
	listing, err := source.Tags{}.Decode(data)
	if err != nil {
		return Response{}, fmt.Errorf("failed to decode ctags output: %w", err)
	}

	items := outline.BuildItems(listing.Symbols, outline.BuildOptions{Blocklist: p.blocklist})
	if p.sessions != nil && req.Revision != "" {
		p.sessions.Put(p.target, req.Revision, items)
	}
	return Response{RequestID: req.RequestID, Items: items, Buffer: p.target}, nil
}

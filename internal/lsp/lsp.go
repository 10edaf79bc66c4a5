// Package lsp implements the LSP coordinator: a per-language client
// registry, a document-sync policy with explicit offset encoding,
// request facades for the per-feature LSP calls, and the state
// machines for completion, signature help, diagnostics, and inlay
// hints. github.com/sourcegraph/jsonrpc2 carries the JSON-RPC wire
// traffic; github.com/google/uuid supplies the request-correlation ids
// the cancellation policy needs.
package lsp

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// OffsetEncoding is the unit a server reports positions in.
type OffsetEncoding int

const (
	EncodingUTF16 OffsetEncoding = iota // LSP's default wire encoding
	EncodingUTF8
	EncodingUTF32
)

// Position is an LSP line/character pair in the client's declared
// encoding. Conversion to/from char offsets happens only in offset.go;
// mixing encodings anywhere else is a defect.
type Position struct {
	Line      int
	Character int
}

// Range is an LSP start/end position pair.
type Range struct {
	Start, End Position
}

// RequestID correlates a sent request with its eventual response, used
// by the cancellation policy.
type RequestID string

func newRequestID() RequestID { return RequestID(uuid.NewString()) }

// Transport sends and receives JSON-RPC messages: request/notify. The
// host wraps its concrete connection (a jsonrpc2.Conn over the server
// subprocess's stdio) in this shape; tests substitute a fake.
type Transport interface {
	Call(ctx context.Context, method string, params, result any) error
	Notify(ctx context.Context, method string, params any) error
}


// ServerConfig is one language's entry in the server registry.
type ServerConfig struct {
	Language     string
	Command      string
	Args         []string
	RootMarkers  []string
	Encoding     OffsetEncoding
}

// Client is a running language server's handle.
type Client struct {
	Config ServerConfig
	mu     sync.Mutex
	conn   Transport
	// SupportsIncrementalSync is set from the server's initialize
	// response; the document-sync facade uses it to decide full vs
	// incremental sync.
	SupportsIncrementalSync bool
	// pending tracks in-flight requests by id so responses that arrive
	// after their originating state was invalidated can be discarded.
	pending map[RequestID]int
}

func newClient(cfg ServerConfig, conn Transport) *Client {
	return &Client{Config: cfg, conn: conn, pending: make(map[RequestID]int)}
}

// beginRequest records a generation-tagged pending request and returns
// its id.
func (c *Client) beginRequest(generation int) RequestID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := newRequestID()
	c.pending[id] = generation
	return id
}

// endRequest reports whether the response for id is still wanted: the
// generation it was issued under must still be current.
func (c *Client) endRequest(id RequestID, currentGeneration int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen, ok := c.pending[id]
	delete(c.pending, id)
	return ok && gen == currentGeneration
}

// Registry owns one running Client per language, started lazily on
// first matching document open.
type Registry struct {
	mu      sync.Mutex
	configs map[string]ServerConfig
	clients map[string]*Client
	// Dial is overridable: tests substitute a fake Transport instead of
	// actually spawning a subprocess, since process spawn and transport
	// wiring belong to the host.
	Dial func(cfg ServerConfig) (Transport, error)
}

// NewRegistry builds an empty server registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]ServerConfig), clients: make(map[string]*Client)}
}

// RegisterServer adds a language's server configuration.
func (r *Registry) RegisterServer(cfg ServerConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.Language] = cfg
}

// ClientFor returns the running client for language, starting it via
// Dial if this is the first matching open.
func (r *Registry) ClientFor(language string) (*Client, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[language]; ok {
		return c, false, nil
	}
	cfg, ok := r.configs[language]
	if !ok {
		return nil, false, nil
	}
	if r.Dial == nil {
		return nil, false, nil
	}
	conn, err := r.Dial(cfg)
	if err != nil {
		return nil, false, err
	}
	c := newClient(cfg, conn)
	r.clients[language] = c
	return c, true, nil
}

// ShutdownAll drains every running client.
func (r *Registry) ShutdownAll(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for lang, c := range r.clients {
		_ = c.conn.Notify(ctx, "exit", nil)
		delete(r.clients, lang)
	}
}

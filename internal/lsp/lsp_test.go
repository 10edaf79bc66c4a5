package lsp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is a stand-in for *jsonrpc2.Conn in tests; real wiring
// to a subprocess belongs to the host.
type fakeTransport struct {
	calls   []string
	results map[string]any
}

func (f *fakeTransport) Call(ctx context.Context, method string, params, result any) error {
	f.calls = append(f.calls, method)
	if raw, ok := f.results[method]; ok {
		b, _ := json.Marshal(raw)
		return json.Unmarshal(b, result)
	}
	return nil
}

func (f *fakeTransport) Notify(ctx context.Context, method string, params any) error {
	f.calls = append(f.calls, method)
	return nil
}

func TestOffsetRoundTripUTF16(t *testing.T) {
	text := "héllo\nworld"
	pos := CharToPosition(text, 7, EncodingUTF16)
	assert.Equal(t, 1, pos.Line)
	back := PositionToChar(text, pos, EncodingUTF16)
	assert.Equal(t, 7, back)
}

func TestDocumentSyncFull(t *testing.T) {
	ft := &fakeTransport{}
	c := newClient(ServerConfig{Language: "go", Encoding: EncodingUTF16}, ft)
	docs := NewDiagnosticsManager()
	sync := NewSync(c, docs)

	require.NoError(t, sync.OpenDocument(context.Background(), "file:///a.go", "go", "package main\n"))
	require.NoError(t, sync.NotifyChangeFull(context.Background(), "file:///a.go", "package main\n\nfunc main() {}\n"))

	d, ok := docs.Get("file:///a.go")
	require.True(t, ok)
	assert.Equal(t, 2, d.Version)
	assert.Contains(t, ft.calls, "textDocument/didChange")
}

func TestDocumentSyncIncremental(t *testing.T) {
	ft := &fakeTransport{}
	c := newClient(ServerConfig{Encoding: EncodingUTF16}, ft)
	docs := NewDiagnosticsManager()
	sync := NewSync(c, docs)
	require.NoError(t, sync.OpenDocument(context.Background(), "u", "go", "abc"))
	require.NoError(t, sync.NotifyChangeIncremental(context.Background(), "u", 1, 2, "X"))
	d, _ := docs.Get("u")
	assert.Equal(t, "aXc", d.TextMirror)
}

func TestCompletionStateMachine(t *testing.T) {
	s := NewCompletionState()
	s.BeginRequest(5, 0)
	assert.Equal(t, CompletionRequesting, s.Phase)
	require.True(t, s.Activate(s.Generation))
	assert.Equal(t, CompletionActive, s.Phase)
	s.TypeChar('f')
	s.TypeChar('o')
	assert.Equal(t, "fo", s.TypedText)
	s.Backspace()
	assert.Equal(t, "f", s.TypedText)
	s.Dismiss()
	assert.Equal(t, CompletionInactive, s.Phase)
}

func TestCompletionActivateRejectsStaleGeneration(t *testing.T) {
	s := NewCompletionState()
	s.BeginRequest(0, 0)
	gen := s.Generation
	s.BeginRequest(0, 1) // generation bumped again before the first response arrives
	assert.False(t, s.Activate(gen))
}

func TestSignatureStateMachineNesting(t *testing.T) {
	s := NewSignatureState()
	s.BeginRequest(3)
	s.Activate()
	assert.Equal(t, 1, s.NestingDepth)
	s.OpenParen()
	assert.Equal(t, 2, s.NestingDepth)
	s.Comma()
	assert.Equal(t, 1, s.ParameterIndex)
	s.BackspaceOverComma()
	assert.Equal(t, 0, s.ParameterIndex)
	s.CloseParen()
	s.CloseParen()
	assert.Equal(t, SignatureInactive, s.Phase)
}

func TestInlayCacheInvalidation(t *testing.T) {
	c := NewInlayCache()
	_, ok := c.Lookup(0, 10, 1)
	assert.False(t, ok)
	c.Store(0, 10, 1, []InlayHintResult{{CharOffset: 3, Label: ": int"}})
	hints, ok := c.Lookup(0, 10, 1)
	require.True(t, ok)
	assert.Len(t, hints, 1)
	c.Invalidate()
	_, ok = c.Lookup(0, 10, 1)
	assert.False(t, ok)
}

func TestRegistryStartsClientLazily(t *testing.T) {
	r := NewRegistry()
	r.RegisterServer(ServerConfig{Language: "go"})
	dialed := 0
	r.Dial = func(cfg ServerConfig) (Transport, error) {
		dialed++
		return &fakeTransport{}, nil
	}
	c1, started1, err := r.ClientFor("go")
	require.NoError(t, err)
	require.True(t, started1)
	require.NotNil(t, c1)
	c2, started2, err := r.ClientFor("go")
	require.NoError(t, err)
	assert.False(t, started2)
	assert.Same(t, c1, c2)
	assert.Equal(t, 1, dialed)
}

package main

import (
	"context"
	"encoding/json"
	"io"
	"os/exec"

	"github.com/limetext/log4go"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/rowan-editor/rowan/internal/editor"
	"github.com/rowan-editor/rowan/internal/lsp"
)

// registerLanguageServers installs the host's server configurations and
// the subprocess dialer. Servers start lazily on the first matching
// file open.
func registerLanguageServers(ed *editor.Editor) {
	servers := ed.LSPServers()
	servers.Dial = dialServer(ed)
	servers.RegisterServer(lsp.ServerConfig{
		Language:    "go",
		Command:     "gopls",
		RootMarkers: []string{"go.mod", ".git"},
		Encoding:    lsp.EncodingUTF16,
	})
}

// stdioPipe adapts a subprocess's stdout/stdin pair into the single
// ReadWriteCloser jsonrpc2's stream wants.
type stdioPipe struct {
	r io.ReadCloser
	w io.WriteCloser
}

func (s stdioPipe) Read(p []byte) (int, error)  { return s.r.Read(p) }
func (s stdioPipe) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s stdioPipe) Close() error {
	_ = s.r.Close()
	return s.w.Close()
}

// rpcTransport narrows *jsonrpc2.Conn to the coordinator's Transport
// shape.
type rpcTransport struct {
	conn *jsonrpc2.Conn
}

func (t rpcTransport) Call(ctx context.Context, method string, params, result any) error {
	return t.conn.Call(ctx, method, params, result)
}

func (t rpcTransport) Notify(ctx context.Context, method string, params any) error {
	return t.conn.Notify(ctx, method, params)
}

// dialServer spawns the configured server subprocess and wires JSON-RPC
// over its stdio, routing server-initiated notifications (diagnostics)
// back into the editor's document-state manager.
func dialServer(ed *editor.Editor) func(cfg lsp.ServerConfig) (lsp.Transport, error) {
	return func(cfg lsp.ServerConfig) (lsp.Transport, error) {
		cmd := exec.Command(cfg.Command, cfg.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, err
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		stream := jsonrpc2.NewBufferedStream(stdioPipe{r: stdout, w: stdin}, jsonrpc2.VSCodeObjectCodec{})
		conn := jsonrpc2.NewConn(context.Background(), stream, jsonrpc2.HandlerWithError(serverNotificationHandler(ed)))
		return rpcTransport{conn: conn}, nil
	}
}

// serverNotificationHandler feeds publishDiagnostics into the shared
// document-state manager (it is internally locked, so writing from the
// connection's goroutine is safe); everything else is ignored.
func serverNotificationHandler(ed *editor.Editor) func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
	return func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		if req.Method != "textDocument/publishDiagnostics" || req.Params == nil {
			return nil, nil
		}
		var params struct {
			URI         string `json:"uri"`
			Diagnostics []struct {
				Range    lsp.Range `json:"range"`
				Severity int       `json:"severity"`
				Message  string    `json:"message"`
				Source   string    `json:"source"`
			} `json:"diagnostics"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			log4go.Warn("lsp: bad publishDiagnostics payload: %s", err)
			return nil, nil
		}
		converted := make([]lsp.Diagnostic, len(params.Diagnostics))
		for i, d := range params.Diagnostics {
			// LSP severity runs 1=error..4=hint; the gutter scale runs
			// the other way.
			sev := 5 - d.Severity
			if d.Severity < 1 || d.Severity > 4 {
				sev = 4
			}
			converted[i] = lsp.Diagnostic{Range: d.Range, Severity: sev, Message: d.Message, Source: d.Source}
		}
		ed.Diagnostics().SetDiagnostics(params.URI, converted)
		return nil, nil
	}
}

package editor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/lsp"
	"github.com/rowan-editor/rowan/internal/popup"
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

// fakeTransport answers each method from a canned result map; notifies
// are accepted and dropped.
type fakeTransport struct {
	results map[string]any
}

func (f *fakeTransport) Call(ctx context.Context, method string, params, result any) error {
	res, ok := f.results[method]
	if !ok {
		return nil
	}
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, result)
}

func (f *fakeTransport) Notify(ctx context.Context, method string, params any) error { return nil }

// newLSPEditor opens a temp .go file against a fake language server,
// returning the transport so tests can adjust canned responses after
// the open (e.g. once the document's uri is known).
func newLSPEditor(t *testing.T, contents string, results map[string]any) (*Editor, *fakeTransport) {
	t.Helper()
	resetRegistry(t)
	if results == nil {
		results = map[string]any{}
	}
	tr := &fakeTransport{results: results}
	e := New()
	e.LSPServers().Dial = func(cfg lsp.ServerConfig) (lsp.Transport, error) {
		return tr, nil
	}
	e.LSPServers().RegisterServer(lsp.ServerConfig{Language: "go", Encoding: lsp.EncodingUTF16})

	path := filepath.Join(t.TempDir(), "main.go")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := e.ReplaceFocusedWithFile(path); err != nil {
		t.Fatal(err)
	}
	return e, tr
}

func drainOneResult(t *testing.T, e *Editor) {
	t.Helper()
	select {
	case fn := <-e.LSPResults():
		e.RunLSPResult(fn)
	case <-time.After(2 * time.Second):
		t.Fatal("no LSP result arrived")
	}
}

func completionLabels(t *testing.T, e *Editor) []string {
	t.Helper()
	p, ok := e.Popups().Find("completion")
	if !ok {
		t.Fatal("completion popup not active")
	}
	c := p.AsAny().(*popup.Completion)
	var labels []string
	for _, it := range c.Items() {
		labels = append(labels, it.Label)
	}
	return labels
}

func TestCompletionTypingFilterAndAccept(t *testing.T) {
	e, _ := newLSPEditor(t, "pre: ", map[string]any{
		"textDocument/completion": map[string]any{
			"items": []map[string]any{
				{"label": "foo"}, {"label": "foobar"}, {"label": "bar"},
			},
		},
	})
	buf, _ := e.FocusedBuffer()
	buf.SetCursor(5)
	e.fsm.SetMode(keys.ModeInsert)
	buf.SetMode(keys.ModeInsert)

	e.capsFor(buf).Lsp.RequestCompletion()
	drainOneResult(t, e)

	labels := completionLabels(t, e)
	if len(labels) != 3 {
		t.Fatalf("expected all 3 candidates before typing, got %v", labels)
	}

	e.HandleKey(keys.KeyPress{Key: 'f'})
	e.HandleKey(keys.KeyPress{Key: 'o'})
	labels = completionLabels(t, e)
	if len(labels) != 2 || labels[0] != "foo" || labels[1] != "foobar" {
		t.Fatalf(`expected ["foo" "foobar"] after typing "fo", got %v`, labels)
	}

	e.HandleKey(keys.KeyPress{Key: 'b'})
	labels = completionLabels(t, e)
	if len(labels) != 1 || labels[0] != "foobar" {
		t.Fatalf(`expected ["foobar"] after typing "fob", got %v`, labels)
	}

	e.HandleKey(keys.KeyPress{Key: '\t'})
	if buf.Text() != "pre: foobar" {
		t.Fatalf("expected accept to replace from the trigger column, got %q", buf.Text())
	}
	if _, ok := e.Popups().Find("completion"); ok {
		t.Fatal("completion popup should be dismissed after accept")
	}
	if buf.Cursor() != len([]rune("pre: foobar")) {
		t.Fatalf("cursor should sit after the inserted text, got %d", buf.Cursor())
	}
}

func TestCompletionDismissedWhenCursorDropsBelowTrigger(t *testing.T) {
	e, _ := newLSPEditor(t, "pre: ", map[string]any{
		"textDocument/completion": map[string]any{
			"items": []map[string]any{{"label": "foo"}},
		},
	})
	buf, _ := e.FocusedBuffer()
	buf.SetCursor(5)

	e.capsFor(buf).Lsp.RequestCompletion()
	drainOneResult(t, e)
	if _, ok := e.Popups().Find("completion"); !ok {
		t.Fatal("completion popup not active")
	}

	registry.RegisterAction(&registry.Action{
		ID: "test.left", Name: "test.left",
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.MotionResult(rope.Single(rope.Point(ctx.Cursor - 1)))
		},
	})
	e.fsm.Trie(keys.ModeNormal).Bind(keys.Sequence{keys.New('h', false, false, false, false)}, "test.left")

	// The key offers itself to the popup, isn't consumed, moves the
	// cursor below the trigger column, and the popup must go inactive.
	e.HandleKey(keys.KeyPress{Key: 'h'})
	if _, ok := e.Popups().Find("completion"); ok {
		t.Fatal("completion popup should dismiss once cursor column < trigger column")
	}
}

func TestHoverOpensPopup(t *testing.T) {
	e, _ := newLSPEditor(t, "abc", map[string]any{
		"textDocument/hover": map[string]any{
			"contents": map[string]any{"value": "some *docs*"},
		},
	})
	buf, _ := e.FocusedBuffer()
	e.capsFor(buf).Lsp.RequestHover()
	drainOneResult(t, e)
	if _, ok := e.Popups().Find("hover"); !ok {
		t.Fatal("hover popup should be on the stack")
	}
}

func TestCodeActionAcceptAppliesWorkspaceEdit(t *testing.T) {
	e, tr := newLSPEditor(t, "abc rest", nil)
	buf, _ := e.FocusedBuffer()
	abs, _ := filepath.Abs(buf.Document().Path())
	uri := "file://" + abs

	tr.results["textDocument/codeAction"] = []map[string]any{{
		"title": "replace abc",
		"kind":  "quickfix",
		"edit": map[string]any{
			"changes": map[string]any{
				uri: []map[string]any{{
					"range": map[string]any{
						"start": map[string]any{"line": 0, "character": 0},
						"end":   map[string]any{"line": 0, "character": 3},
					},
					"newText": "xyz",
				}},
			},
		},
	}}

	e.capsFor(buf).Lsp.RequestCodeActions()
	drainOneResult(t, e)
	if _, ok := e.Popups().Find("code-actions"); !ok {
		t.Fatal("code-actions popup should be on the stack")
	}

	e.HandleKey(keys.KeyPress{Key: '\n'})
	if buf.Text() != "xyz rest" {
		t.Fatalf("expected accepted edit to rewrite the document, got %q", buf.Text())
	}
	if _, ok := e.Popups().Find("code-actions"); ok {
		t.Fatal("code-actions popup should be dismissed after accept")
	}
}

package lsp

import "context"

// Features is the per-feature request facade: hover, completion,
// goto_definition, references, format, signature_help, code_action,
// inlay_hints. Each method builds the
// LSP params from a char-offset position (converting via offset.go),
// sends the request, and returns the raw result for the caller
// (internal/popup, internal/editor) to interpret.
type Features struct {
	client *Client
	docs   *DiagnosticsManager
}

func NewFeatures(client *Client, docs *DiagnosticsManager) *Features {
	return &Features{client: client, docs: docs}
}

func (f *Features) positionParams(uri string, charOffset int) (textDocumentIdentifier, Position, bool) {
	d, ok := f.docs.Get(uri)
	if !ok {
		return textDocumentIdentifier{}, Position{}, false
	}
	return textDocumentIdentifier{URI: uri}, CharToPosition(d.TextMirror, charOffset, f.client.Config.Encoding), true
}

type textDocumentPositionParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// HoverResult is the facade's normalized hover response.
type HoverResult struct {
	Contents string
	Range    *Range
}

// Hover requests hover info at charOffset. This must never block the
// editor loop: it's expected to be invoked
// from a goroutine/task the host schedules, with the result delivered
// through a channel drained on the next tick — Features itself just
// performs the synchronous-looking call against ctx, leaving
// scheduling to the caller.
func (f *Features) Hover(ctx context.Context, uri string, charOffset int) (HoverResult, error) {
	td, pos, ok := f.positionParams(uri, charOffset)
	if !ok {
		return HoverResult{}, nil
	}
	var raw struct {
		Contents struct {
			Value string `json:"value"`
		} `json:"contents"`
		Range *Range `json:"range"`
	}
	id := f.client.beginRequest(0)
	defer f.client.endRequest(id, 0)
	if err := f.client.conn.Call(ctx, "textDocument/hover", textDocumentPositionParams{TextDocument: td, Position: pos}, &raw); err != nil {
		return HoverResult{}, err
	}
	return HoverResult{Contents: raw.Contents.Value, Range: raw.Range}, nil
}

// CompletionResultItem mirrors one LSP CompletionItem.
type CompletionResultItem struct {
	Label      string
	Detail     string
	InsertText string
}

// Completion requests completion candidates at charOffset.
func (f *Features) Completion(ctx context.Context, uri string, charOffset, generation int) ([]CompletionResultItem, RequestID, error) {
	td, pos, ok := f.positionParams(uri, charOffset)
	if !ok {
		return nil, "", nil
	}
	var raw struct {
		Items []struct {
			Label      string `json:"label"`
			Detail     string `json:"detail"`
			InsertText string `json:"insertText"`
		} `json:"items"`
	}
	id := f.client.beginRequest(generation)
	if err := f.client.conn.Call(ctx, "textDocument/completion", textDocumentPositionParams{TextDocument: td, Position: pos}, &raw); err != nil {
		return nil, id, err
	}
	out := make([]CompletionResultItem, len(raw.Items))
	for i, it := range raw.Items {
		out[i] = CompletionResultItem{Label: it.Label, Detail: it.Detail, InsertText: it.InsertText}
	}
	return out, id, nil
}

// StillWanted reports whether a response for id should still be applied.
func (f *Features) StillWanted(id RequestID, currentGeneration int) bool {
	return f.client.endRequest(id, currentGeneration)
}

// GotoDefinition requests definition locations.
func (f *Features) GotoDefinition(ctx context.Context, uri string, charOffset int) ([]LocationRef, error) {
	return f.locationRequest(ctx, "textDocument/definition", uri, charOffset)
}

// References requests reference locations.
func (f *Features) References(ctx context.Context, uri string, charOffset int) ([]LocationRef, error) {
	return f.locationRequest(ctx, "textDocument/references", uri, charOffset)
}

// LocationRef is one `{uri, line, col}` result (char-offset form is
// resolved by the caller via offset.go before display).
type LocationRef struct {
	URI  string
	Line int
	Col  int
}

func (f *Features) locationRequest(ctx context.Context, method, uri string, charOffset int) ([]LocationRef, error) {
	td, pos, ok := f.positionParams(uri, charOffset)
	if !ok {
		return nil, nil
	}
	var raw []struct {
		URI   string `json:"uri"`
		Range Range  `json:"range"`
	}
	if err := f.client.conn.Call(ctx, method, textDocumentPositionParams{TextDocument: td, Position: pos}, &raw); err != nil {
		return nil, err
	}
	out := make([]LocationRef, len(raw))
	for i, r := range raw {
		out[i] = LocationRef{URI: r.URI, Line: r.Range.Start.Line, Col: r.Range.Start.Character}
	}
	return out, nil
}

// FormatEdit is one text replacement from a formatting response.
type FormatEdit struct {
	Range Range
	Text  string
}

// Format requests whole-document formatting.
func (f *Features) Format(ctx context.Context, uri string) ([]FormatEdit, error) {
	var raw []struct {
		Range   Range  `json:"range"`
		NewText string `json:"newText"`
	}
	if err := f.client.conn.Call(ctx, "textDocument/formatting", struct {
		TextDocument textDocumentIdentifier `json:"textDocument"`
	}{TextDocument: textDocumentIdentifier{URI: uri}}, &raw); err != nil {
		return nil, err
	}
	out := make([]FormatEdit, len(raw))
	for i, r := range raw {
		out[i] = FormatEdit{Range: r.Range, Text: r.NewText}
	}
	return out, nil
}

// SignatureHelpResult mirrors LSP's SignatureHelp response.
type SignatureHelpResult struct {
	Signatures []struct {
		Label      string
		Parameters []string
	}
	ActiveSignature int
	ActiveParameter int
}

// SignatureHelp requests signature help at charOffset.
func (f *Features) SignatureHelp(ctx context.Context, uri string, charOffset int) (SignatureHelpResult, error) {
	td, pos, ok := f.positionParams(uri, charOffset)
	if !ok {
		return SignatureHelpResult{}, nil
	}
	var raw struct {
		Signatures []struct {
			Label      string   `json:"label"`
			Parameters []struct {
				Label string `json:"label"`
			} `json:"parameters"`
		} `json:"signatures"`
		ActiveSignature int `json:"activeSignature"`
		ActiveParameter int `json:"activeParameter"`
	}
	if err := f.client.conn.Call(ctx, "textDocument/signatureHelp", textDocumentPositionParams{TextDocument: td, Position: pos}, &raw); err != nil {
		return SignatureHelpResult{}, err
	}
	res := SignatureHelpResult{ActiveSignature: raw.ActiveSignature, ActiveParameter: raw.ActiveParameter}
	for _, s := range raw.Signatures {
		params := make([]string, len(s.Parameters))
		for i, p := range s.Parameters {
			params[i] = p.Label
		}
		res.Signatures = append(res.Signatures, struct {
			Label      string
			Parameters []string
		}{Label: s.Label, Parameters: params})
	}
	return res, nil
}

// TextEditResult is one text replacement inside a workspace edit.
type TextEditResult struct {
	Range   Range
	NewText string
}

// WorkspaceEditResult maps each uri to its ordered text edits.
type WorkspaceEditResult struct {
	Changes map[string][]TextEditResult
}

// ServerCommandResult is a server-defined command a code action asks
// the client to execute.
type ServerCommandResult struct {
	Title     string
	Command   string
	Arguments []any
}

// CodeActionResult mirrors one LSP CodeAction: a workspace edit, a
// server command, or both.
type CodeActionResult struct {
	Title   string
	Kind    string
	Edit    *WorkspaceEditResult
	Command *ServerCommandResult
}

type wireTextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type wireCommand struct {
	Title     string `json:"title"`
	Command   string `json:"command"`
	Arguments []any  `json:"arguments"`
}

// CodeAction requests code actions for a range.
func (f *Features) CodeAction(ctx context.Context, uri string, startChar, endChar int) ([]CodeActionResult, error) {
	d, ok := f.docs.Get(uri)
	if !ok {
		return nil, nil
	}
	enc := f.client.Config.Encoding
	rng := Range{Start: CharToPosition(d.TextMirror, startChar, enc), End: CharToPosition(d.TextMirror, endChar, enc)}
	var raw []struct {
		Title string `json:"title"`
		Kind  string `json:"kind"`
		Edit  *struct {
			Changes map[string][]wireTextEdit `json:"changes"`
		} `json:"edit"`
		Command *wireCommand `json:"command"`
	}
	if err := f.client.conn.Call(ctx, "textDocument/codeAction", struct {
		TextDocument textDocumentIdentifier `json:"textDocument"`
		Range        Range                  `json:"range"`
	}{TextDocument: textDocumentIdentifier{URI: uri}, Range: rng}, &raw); err != nil {
		return nil, err
	}
	out := make([]CodeActionResult, len(raw))
	for i, r := range raw {
		res := CodeActionResult{Title: r.Title, Kind: r.Kind}
		if r.Edit != nil {
			edit := &WorkspaceEditResult{Changes: make(map[string][]TextEditResult, len(r.Edit.Changes))}
			for u, edits := range r.Edit.Changes {
				converted := make([]TextEditResult, len(edits))
				for j, te := range edits {
					converted[j] = TextEditResult{Range: te.Range, NewText: te.NewText}
				}
				edit.Changes[u] = converted
			}
			res.Edit = edit
		}
		if r.Command != nil {
			res.Command = &ServerCommandResult{Title: r.Command.Title, Command: r.Command.Command, Arguments: r.Command.Arguments}
		}
		out[i] = res
	}
	return out, nil
}

// ExecuteCommand asks the server to run a code action's command.
func (f *Features) ExecuteCommand(ctx context.Context, cmd *ServerCommandResult) error {
	var result any
	return f.client.conn.Call(ctx, "workspace/executeCommand", struct {
		Command   string `json:"command"`
		Arguments []any  `json:"arguments"`
	}{Command: cmd.Command, Arguments: cmd.Arguments}, &result)
}

// InlayHintResult is one inlay hint at a character position.
type InlayHintResult struct {
	CharOffset int
	Label      string
}

// InlayHints requests inlay hints for the visible line range
// [startLine, endLine].
func (f *Features) InlayHints(ctx context.Context, uri string, startLine, endLine int) ([]InlayHintResult, error) {
	d, ok := f.docs.Get(uri)
	if !ok {
		return nil, nil
	}
	var raw []struct {
		Position Position `json:"position"`
		Label    string   `json:"label"`
	}
	if err := f.client.conn.Call(ctx, "textDocument/inlayHint", struct {
		TextDocument textDocumentIdentifier `json:"textDocument"`
		Range        Range                  `json:"range"`
	}{
		TextDocument: textDocumentIdentifier{URI: uri},
		Range:        Range{Start: Position{Line: startLine}, End: Position{Line: endLine}},
	}, &raw); err != nil {
		return nil, err
	}
	out := make([]InlayHintResult, len(raw))
	for i, r := range raw {
		out[i] = InlayHintResult{CharOffset: PositionToChar(d.TextMirror, r.Position, f.client.Config.Encoding), Label: r.Label}
	}
	return out, nil
}

package lsp

import "sync"

// Diagnostic is one LSP diagnostic translated into a display-ready
// record.
type Diagnostic struct {
	Range    Range
	Severity int // 4=error, 3=warning, 2=information, 1=hint
	Message  string
	Source   string
}

// DocState tracks one open document's LSP-visible state.
type DocState struct {
	URI             string
	Language        string
	Version         int
	TextMirror      string
	Diagnostics     []Diagnostic
	DiagnosticRev   int
	// Generation increments on every BumpGeneration call, which the
	// editor makes on each buffer change sent as didChange.
	Generation int
}

// SeverityAtLine returns the highest severity diagnostic whose range
// covers line, for underline rendering.
func (d *DocState) SeverityAtLine(line int) (int, bool) {
	best := 0
	found := false
	for _, diag := range d.Diagnostics {
		if line < diag.Range.Start.Line || line > diag.Range.End.Line {
			continue
		}
		if diag.Severity > best {
			best = diag.Severity
			found = true
		}
	}
	return best, found
}

// GutterSeverity returns the highest-severity diagnostic starting on
// line, for the per-line gutter marker.
func (d *DocState) GutterSeverity(line int) int {
	best := 0
	for _, diag := range d.Diagnostics {
		if diag.Range.Start.Line == line && diag.Severity > best {
			best = diag.Severity
		}
	}
	return best
}

// DiagnosticsManager owns every open document's DocState.
type DiagnosticsManager struct {
	mu   sync.Mutex
	docs map[string]*DocState
}

func NewDiagnosticsManager() *DiagnosticsManager {
	return &DiagnosticsManager{docs: make(map[string]*DocState)}
}

// Open registers uri, returning its (possibly new) DocState.
func (m *DiagnosticsManager) Open(uri, language, text string) *DocState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.docs[uri]; ok {
		return d
	}
	d := &DocState{URI: uri, Language: language, TextMirror: text, Version: 1}
	m.docs[uri] = d
	return d
}

// Close drops uri's state.
func (m *DiagnosticsManager) Close(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, uri)
}

// Get returns uri's state, if open.
func (m *DiagnosticsManager) Get(uri string) (*DocState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[uri]
	return d, ok
}

// SetDiagnostics replaces uri's diagnostics and bumps its revision
// counter.
func (m *DiagnosticsManager) SetDiagnostics(uri string, diags []Diagnostic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[uri]
	if !ok {
		return
	}
	d.Diagnostics = diags
	d.DiagnosticRev++
}

// BumpGeneration invalidates uri's in-flight requests.
func (m *DiagnosticsManager) BumpGeneration(uri string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[uri]
	if !ok {
		return 0
	}
	d.Generation++
	return d.Generation
}

// Package validation implements the debounced external-checker pipeline.
//
// Editor events feed per-document delayers; when a delayer fires, the
// current document snapshot goes to the external checker and every stdout
// line matching the diagnostic pattern becomes an LSP diagnostic. Each
// completed run atomically replaces the document's previous diagnostic set.
package validation

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"livecode-ls/src/config"
	"livecode-ls/src/internal/async"
	"livecode-ls/src/internal/common"
	"livecode-ls/src/internal/errors"
	"livecode-ls/src/server/documents"
	"livecode-ls/src/server/process"
)

// Event is an editor document event that may trigger validation
type Event int

const (
	EventOpen Event = iota
	EventSave
	EventChange
)

// Notifier delivers user-facing messages (window/showMessage in the LSP
// surface, plain stderr in the CLI).
type Notifier func(message string)

// Validator orchestrates validation runs for all open documents. Each
// document has its own delayer and its own diagnostic set; one document's
// run never blocks another's. An in-flight checker process is never killed
// by a newer trigger - the last completed run wins.
type Validator struct {
	runner process.Runner
	sink   Sink
	notify Notifier

	mu       sync.Mutex
	cfg      *config.Config
	trusted  bool
	paused   bool
	notified bool
	delayers map[uri.URI]*async.Delayer
}

// NewValidator creates a validator publishing to the given sink
func NewValidator(cfg *config.Config, runner process.Runner, sink Sink, notify Notifier) *Validator {
	if notify == nil {
		notify = func(message string) {
			common.CheckLogger.Warn("%s", message)
		}
	}
	return &Validator{
		runner:   runner,
		sink:     sink,
		notify:   notify,
		cfg:      cfg,
		delayers: make(map[uri.URI]*async.Delayer),
	}
}

// SetTrusted sets the workspace trust gate. Validation never runs in an
// untrusted workspace; every trigger is a no-op.
func (v *Validator) SetTrusted(trusted bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.trusted = trusted
}

// UpdateConfig installs reloaded settings. A paused pipeline resumes and
// the one-message-per-configuration budget resets. Disabling validation
// drops all published diagnostics.
func (v *Validator) UpdateConfig(cfg *config.Config) {
	v.mu.Lock()
	v.cfg = cfg
	v.paused = false
	v.notified = false
	disabled := cfg.Validation == nil || !cfg.Validation.Enable
	v.mu.Unlock()

	if disabled {
		v.sink.Clear()
	}
}

// HandleEvent reacts to an editor document event. Open triggers in every
// mode, save only in on-save mode, and change only in on-type mode; other
// combinations are ignored.
func (v *Validator) HandleEvent(event Event, doc *documents.Document) {
	if doc == nil {
		return
	}

	v.mu.Lock()
	cfg := v.cfg
	trusted := v.trusted
	paused := v.paused
	v.mu.Unlock()

	if !trusted || paused {
		return
	}
	if cfg.Validation == nil || !cfg.Validation.Enable {
		return
	}
	if !documents.IsSupported(doc.LanguageID) {
		return
	}

	trigger := cfg.Validation.Trigger
	switch event {
	case EventOpen:
	case EventSave:
		if trigger != config.TriggerOnSave {
			return
		}
	case EventChange:
		if trigger != config.TriggerOnType {
			return
		}
	}

	// Snapshot now: the delayer fires later and the store may have moved on.
	snapshot := *doc
	delay := time.Duration(cfg.DebounceMillisOrDefault()) * time.Millisecond

	v.delayerFor(doc.URI).TriggerAfter(func() {
		v.runValidation(&snapshot)
	}, delay)
}

// delayerFor returns the document's delayer, creating it on first use
func (v *Validator) delayerFor(docURI uri.URI) *async.Delayer {
	v.mu.Lock()
	defer v.mu.Unlock()

	d, ok := v.delayers[docURI]
	if !ok {
		d = async.NewDelayer(0)
		v.delayers[docURI] = d
	}
	return d
}

// CloseDocument releases everything owned for a document: its delayer and
// its published diagnostics.
func (v *Validator) CloseDocument(docURI uri.URI) {
	v.mu.Lock()
	if d, ok := v.delayers[docURI]; ok {
		d.Cancel()
		delete(v.delayers, docURI)
	}
	v.mu.Unlock()

	v.sink.Delete(docURI)
}

// Shutdown cancels all pending work and clears published diagnostics
func (v *Validator) Shutdown() {
	v.mu.Lock()
	for docURI, d := range v.delayers {
		d.Cancel()
		delete(v.delayers, docURI)
	}
	v.mu.Unlock()

	v.sink.Clear()
}

// runValidation performs one checker run for a document snapshot and
// replaces its diagnostic set with the outcome. Configuration is re-read at
// fire time so a run never proceeds against settings that were replaced
// while it sat in the debounce window.
func (v *Validator) runValidation(doc *documents.Document) {
	v.mu.Lock()
	cfg := v.cfg
	paused := v.paused
	v.mu.Unlock()

	if paused || cfg.Validation == nil || !cfg.Validation.Enable {
		return
	}

	diagnostics, err := v.Check(context.Background(), doc, cfg)
	if err != nil {
		v.pauseWith(err.Error())
		return
	}

	v.sink.Set(doc.URI, diagnostics)
}

// Check runs the checker once for a document and returns its diagnostics.
// The returned slice is empty, not nil, when the checker reports nothing,
// so publishing it clears stale diagnostics. Resolution and spawn failures
// return an error and produce no diagnostics.
func (v *Validator) Check(ctx context.Context, doc *documents.Document, cfg *config.Config) ([]protocol.Diagnostic, error) {
	executable := cfg.ResolveExecutable()
	userDefined := cfg.ExecutableIsUserDefined()

	resolved, err := exec.LookPath(executable)
	if err != nil {
		if userDefined {
			return nil, errors.NewConfigError("validation.executable",
				"configured checker '"+executable+"' was not found; check the validation.executable setting")
		}
		return nil, errors.NewConfigError("validation.executable",
			"no checker executable found; install '"+config.DefaultCheckerName+"' or set validation.executable")
	}

	req := process.Request{
		Executable:  resolved,
		Args:        append([]string{}, cfg.Validation.Args...),
		UserDefined: userDefined,
	}
	if cfg.Validation.Trigger == config.TriggerOnType {
		req.Mode = process.ModeStdin
		req.Input = doc.Text
	} else {
		req.Mode = process.ModeFile
		req.FilePath = doc.Path()
	}

	result, err := v.runner.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	if result.ExitErr != nil {
		common.CheckLogger.Debug("Checker exited with: %v", result.ExitErr)
	}

	lines := doc.Lines()
	diagnostics := []protocol.Diagnostic{}
	for _, line := range result.Lines {
		parsed, ok := ParseCheckerLine(line)
		if !ok {
			continue
		}
		length := 0
		if parsed.Line-1 < len(lines) {
			length = len(lines[parsed.Line-1])
		}
		diagnostics = append(diagnostics, toLSPDiagnostic(parsed, length))
	}

	return diagnostics, nil
}

// pauseWith suppresses further runs until the next configuration reload and
// reports the reason to the user at most once per configuration load.
func (v *Validator) pauseWith(message string) {
	v.mu.Lock()
	v.paused = true
	alreadyNotified := v.notified
	v.notified = true
	v.mu.Unlock()

	common.CheckLogger.Error("Validation paused: %s", message)
	if !alreadyNotified {
		v.notify(message)
	}
}

// Package jump focuses the tmux pane that owns a file and makes the editor
// running there open it at a line.
//
// Keystrokes are injected with tmux send-keys in three steps: Escape to leave
// whatever mode the editor is in, the ex command in literal mode, then Enter.
// Nothing is read back from the pane; a jump that reaches tmux is reported as
// done even if the editor ignores it.
package jump

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/timvw/tmux-marks/internal/inventory"
	"github.com/timvw/tmux-marks/internal/model"
	"github.com/timvw/tmux-marks/internal/mux"
	telem "github.com/timvw/tmux-marks/internal/otel"
)

var (
	// ErrNoMatchingSession means no window directory is a prefix of the path.
	ErrNoMatchingSession = errors.New("no matching session")
	// ErrNoEditorInSession means the owning session has no editor pane.
	ErrNoEditorInSession = errors.New("no editor in session")
	// ErrInvalidLine means the requested line is below 1.
	ErrInvalidLine = errors.New("invalid line")
)

var tracer = otel.Tracer("tmux-marks")

// Inventory is the part of *inventory.Inventory the orchestrator needs.
type Inventory interface {
	Refresh(ctx context.Context) error
	Resolve(path string) (model.Session, bool)
}

// Orchestrator performs jumps.
type Orchestrator struct {
	Inventory Inventory
	Mux       mux.Controller
	// Metrics is nil-safe.
	Metrics *telem.Metrics
}

// New creates an orchestrator.
func New(inv Inventory, ctl mux.Controller, metrics *telem.Metrics) *Orchestrator {
	return &Orchestrator{Inventory: inv, Mux: ctl, Metrics: metrics}
}

// BuildEditCommand returns the ex command that opens path at line.
// Double quotes in path are backslash-escaped; nothing else is touched.
func BuildEditCommand(path string, line int) string {
	return fmt.Sprintf(`:silent! edit +%d "%s"`, line, strings.ReplaceAll(path, `"`, `\"`))
}

// Jump refreshes the inventory, resolves path to a session and injects the
// edit command into that session's editor pane.
//
// The pane used is the first editor window of the session, which is not
// necessarily the window whose directory matched path.
func (o *Orchestrator) Jump(ctx context.Context, path string, line int) (model.Target, error) {
	ctx, span := tracer.Start(ctx, "jump")
	defer span.End()
	span.SetAttributes(attribute.String("path", path), attribute.Int("line", line))

	target, err := o.jump(ctx, path, line)
	outcome := outcomeOf(err)
	o.Metrics.RecordJump(ctx, outcome)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.Warn("jump failed", "path", path, "line", line, "outcome", outcome, "err", err)
		return model.Target{}, err
	}

	span.SetAttributes(attribute.String("target", target.String()))
	slog.Info("jumped", "path", path, "line", line, "target", target.String())
	return target, nil
}

func (o *Orchestrator) jump(ctx context.Context, path string, line int) (model.Target, error) {
	if line < 1 {
		return model.Target{}, fmt.Errorf("%w: %d", ErrInvalidLine, line)
	}

	if err := o.Inventory.Refresh(ctx); err != nil {
		if errors.Is(err, inventory.ErrNoSessionsFound) {
			return model.Target{}, fmt.Errorf("%w: %s", ErrNoMatchingSession, path)
		}
		return model.Target{}, err
	}

	session, ok := o.Inventory.Resolve(path)
	if !ok {
		return model.Target{}, fmt.Errorf("%w: %s", ErrNoMatchingSession, path)
	}
	w, ok := session.EditorWindow()
	if !ok {
		return model.Target{}, fmt.Errorf("%w: %s", ErrNoEditorInSession, session.Name)
	}
	target := model.Target{Session: session.Name, Window: w.Index, Pane: *w.EditorPane}

	if err := o.focus(ctx, target); err != nil {
		return model.Target{}, err
	}
	if err := o.inject(ctx, target.String(), BuildEditCommand(path, line)); err != nil {
		return model.Target{}, err
	}
	return target, nil
}

// focus switches the client to the target session, window and pane.
func (o *Orchestrator) focus(ctx context.Context, t model.Target) error {
	if err := o.Mux.SwitchClient(ctx, t.Session); err != nil {
		return fmt.Errorf("switch client: %w", err)
	}
	if err := o.Mux.SelectWindow(ctx, model.WindowTarget(t.Session, t.Window)); err != nil {
		return fmt.Errorf("select window: %w", err)
	}
	if err := o.Mux.SelectPane(ctx, t.String()); err != nil {
		return fmt.Errorf("select pane: %w", err)
	}
	return nil
}

// inject sends Escape, the literal ex command, then Enter.
func (o *Orchestrator) inject(ctx context.Context, pane, ex string) error {
	if err := o.Mux.SendKeys(ctx, pane, "Escape"); err != nil {
		return fmt.Errorf("send escape: %w", err)
	}
	if err := o.Mux.SendLiteral(ctx, pane, ex); err != nil {
		return fmt.Errorf("send literal keys: %w", err)
	}
	if err := o.Mux.SendKeys(ctx, pane, "Enter"); err != nil {
		return fmt.Errorf("send enter: %w", err)
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoMatchingSession):
		return "no_match"
	case errors.Is(err, ErrNoEditorInSession):
		return "no_editor"
	case errors.Is(err, ErrInvalidLine):
		return "invalid_line"
	default:
		return "error"
	}
}

package gridcalc

// InvokerProperty names the piece of invoker state a notification is about.
type InvokerProperty int

const (
	PropertyUndoEmpty InvokerProperty = iota
	PropertyRedoEmpty
	PropertyUndoTitle
	PropertyRedoTitle
)

// String returns a human-readable name for the property.
func (p InvokerProperty) String() string {
	switch p {
	case PropertyUndoEmpty:
		return "UndoEmpty"
	case PropertyRedoEmpty:
		return "RedoEmpty"
	case PropertyUndoTitle:
		return "UndoTitle"
	case PropertyRedoTitle:
		return "RedoTitle"
	default:
		return "Unknown"
	}
}

// InvokerListener is notified when the undo/redo state exposed by an
// Invoker changes value.
type InvokerListener interface {
	InvokerChanged(inv *Invoker, prop InvokerProperty)
}

// InvokerListenerFunc adapts a function to InvokerListener.
type InvokerListenerFunc func(inv *Invoker, prop InvokerProperty)

// InvokerChanged calls f(inv, prop).
func (f InvokerListenerFunc) InvokerChanged(inv *Invoker, prop InvokerProperty) { f(inv, prop) }

// Invoker runs commands and keeps their undo/redo history.
//
// An undoable edit is recorded with SetCommand, AddUndo and ExecuteCommand,
// called once each in that order; Do performs that sequence. Commands that
// do not belong in the history (load, save) go through SetCommand and
// ExecuteCommand only, or Run.
type Invoker struct {
	undo   []Command // most recent last
	redo   []Command
	staged Command

	undoEmpty bool
	redoEmpty bool
	undoTitle string
	redoTitle string

	listeners []InvokerListener
}

// NewInvoker creates an invoker with empty history.
func NewInvoker() *Invoker {
	return &Invoker{undoEmpty: true, redoEmpty: true}
}

// AddListener registers a listener for undo/redo state changes.
func (inv *Invoker) AddListener(listener InvokerListener) {
	inv.listeners = append(inv.listeners, listener)
}

// IsUndoEmpty reports whether there is nothing to undo.
func (inv *Invoker) IsUndoEmpty() bool { return inv.undoEmpty }

// IsRedoEmpty reports whether there is nothing to redo.
func (inv *Invoker) IsRedoEmpty() bool { return inv.redoEmpty }

// UndoTitle returns the title of the command Undo would revert, or "".
func (inv *Invoker) UndoTitle() string { return inv.undoTitle }

// RedoTitle returns the title of the command Redo would reapply, or "".
func (inv *Invoker) RedoTitle() string { return inv.redoTitle }

// SetCommand stages cmd for the next ExecuteCommand. The history is untouched.
func (inv *Invoker) SetCommand(cmd Command) {
	inv.staged = cmd
}

// AddUndo records cmd as the most recent undoable command. Anything that was
// undone before is no longer redoable.
func (inv *Invoker) AddUndo(cmd Command) {
	inv.undo = append(inv.undo, cmd)
	inv.redo = nil
	inv.refresh()
}

// ExecuteCommand runs the staged command and clears it. A command titled
// "load" replaces the document, so the whole history is dropped first. The
// history is gone even when the load then fails and the sheet keeps its
// previous contents.
// With nothing staged, the most recent undoable command is executed again.
func (inv *Invoker) ExecuteCommand() error {
	if inv.staged == nil {
		if len(inv.undo) == 0 {
			return nil
		}
		err := inv.undo[len(inv.undo)-1].Execute()
		inv.refresh()
		return err
	}

	cmd := inv.staged
	inv.staged = nil
	if cmd.Title() == TitleLoad {
		inv.undo = nil
		inv.redo = nil
	}
	err := cmd.Execute()
	inv.refresh()
	return err
}

// Do records cmd in the history and executes it.
func (inv *Invoker) Do(cmd Command) error {
	inv.SetCommand(cmd)
	inv.AddUndo(cmd)
	return inv.ExecuteCommand()
}

// Run executes cmd without recording it in the history.
func (inv *Invoker) Run(cmd Command) error {
	inv.SetCommand(cmd)
	return inv.ExecuteCommand()
}

// Undo reverts the most recent command. It does nothing when the history is
// empty.
func (inv *Invoker) Undo() error {
	if len(inv.undo) == 0 {
		return nil
	}
	cmd := inv.undo[len(inv.undo)-1]
	inv.undo = inv.undo[:len(inv.undo)-1]
	inv.redo = append(inv.redo, cmd)
	err := cmd.Unexecute()
	inv.refresh()
	return err
}

// Redo reapplies the most recently undone command. It does nothing when
// there is nothing to redo.
func (inv *Invoker) Redo() error {
	if len(inv.redo) == 0 {
		return nil
	}
	cmd := inv.redo[len(inv.redo)-1]
	inv.redo = inv.redo[:len(inv.redo)-1]
	inv.undo = append(inv.undo, cmd)
	err := cmd.Execute()
	inv.refresh()
	return err
}

// refresh recomputes the exposed state and notifies listeners of each
// field that changed.
func (inv *Invoker) refresh() {
	undoEmpty, undoTitle := true, ""
	if n := len(inv.undo); n > 0 {
		undoEmpty, undoTitle = false, inv.undo[n-1].Title()
	}
	redoEmpty, redoTitle := true, ""
	if n := len(inv.redo); n > 0 {
		redoEmpty, redoTitle = false, inv.redo[n-1].Title()
	}

	var changed []InvokerProperty
	if undoEmpty != inv.undoEmpty {
		inv.undoEmpty = undoEmpty
		changed = append(changed, PropertyUndoEmpty)
	}
	if undoTitle != inv.undoTitle {
		inv.undoTitle = undoTitle
		changed = append(changed, PropertyUndoTitle)
	}
	if redoEmpty != inv.redoEmpty {
		inv.redoEmpty = redoEmpty
		changed = append(changed, PropertyRedoEmpty)
	}
	if redoTitle != inv.redoTitle {
		inv.redoTitle = redoTitle
		changed = append(changed, PropertyRedoTitle)
	}

	for _, prop := range changed {
		for _, l := range inv.listeners {
			l.InvokerChanged(inv, prop)
		}
	}
}

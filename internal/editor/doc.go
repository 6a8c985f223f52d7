/*
Package editor implements the orchestration layer between transport
adapters and the layout document model.

An Engine owns one live document plus its snapshot history and applies
mutations one at a time: resolve the widget config through the catalog,
mutate the document (all-or-nothing), push exactly one history snapshot
only when the document actually changed, then fire hooks and
best-effort autosave. Undo and redo swap the live document for a clone of
the neighboring snapshot, so snapshots are never aliased by later edits.
*/
package editor

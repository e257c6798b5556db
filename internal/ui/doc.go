// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides the three page controllers of the clipping workflow:
//  1. [InputView] : Collect a source URL, duration, and clip count; validate and submit
//  2. [ProcessView] : Follow live progress for one job with the five-stage pipeline indicator
//  3. [EditView] : Edit caption text, speaker assignment, and per-speaker styling, then
//     submit an update-and-regenerate request tracked over the same channel
//
// A fourth [ErrorView] renders the terminal error panel when the server pushes
// a fatal job error.
//
// The (view) [Model] implements bubbletea's standard Init/Update/View pattern.
// Live updates flow through internal/updates subscriptions bridged into tea
// messages with the wait-on-channel command pattern; when the channel cannot
// connect, the process view degrades to one-shot status polls on a ticker.
//
// Mouse reporting is enabled for the edit view's color-picker popup, which is
// freely draggable within the terminal bounds.
package ui

// Package session holds the pure, transport-free state behind the editing and
// progress views.
//
// Everything here is plain data plus small state machines, testable without a
// terminal or a server:
//
//   - [StageStates] : the five-stage progress indicator derived from a 0-100 percent
//   - [SpeakerNumber] : speaker label to speaker slot (1-3) extraction
//   - [Editor] : caption text/speaker edits, per-speaker styling, the dirty flag,
//     and assembly of the single update submission payload
//   - [Prober] : the fallback video resolution machine (probing -> loaded | exhausted)
//   - [Popup] : the draggable color-picker overlay (idle -> dragging -> idle)
//
// The UI layer owns one instance of each per page and feeds them events; no
// state here is global.
package session

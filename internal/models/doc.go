// Package models defines the wire-level data model shared with the clip generation server.
//
// The package contains two categories of types:
//
// 1. Server resources, read-only on the client:
//   - [Job] : Job state returned by the status endpoint and seeded into progress views
//   - [ClipData] : Generated clip descriptor with optional path fields and captions
//   - [RecentClip] : Entry from the recent-activity endpoint
//
// 2. Editing state, mutated locally and submitted as one payload:
//   - [Caption] : Single caption entry, ordered by Index
//   - [SpeakerStyle] : Per-speaker caption styling, keyed 1-3
//   - [EndScreen] : Global end-screen settings
//   - [CaptionUpdate] : Full update-and-regenerate submission
//
// JSON tags match the server's field names; none of these types are persisted
// client-side except the minimal history row in internal/repositories.
package models

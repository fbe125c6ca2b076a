package model

import "time"

// MatchSnapshot is one timestamped document written into a match's
// snapshot container by the external scoring feed.  The document is
// schema‑less: Doc holds the decoded JSON payload and may or may not
// contain the `standings`, `teamStatus` and `summary` substructures.
// The service never writes snapshots over HTTP; only the newest document
// per container is ever surfaced to readers.
//
// Fields:
//  ID         – primary key identifier.
//  Container  – name of the container the document belongs to.
//  MatchID    – match identifier as reported by the feed.
//  Doc        – decoded snapshot payload.
//  RecordedAt – feed timestamp used for newest‑first ordering.
type MatchSnapshot struct {
	ID         uint64                 // match_snapshots.id
	Container  string                 // match_snapshots.container
	MatchID    string                 // match_snapshots.match_id
	Doc        map[string]interface{} // match_snapshots.doc (JSON column)
	RecordedAt time.Time              // match_snapshots.recorded_at
}

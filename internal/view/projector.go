// Package view reduces raw match snapshot documents to the shape a link's
// view type exposes. Projection is a pure function over the decoded
// document: no storage access, no mutation of the input.
package view

import "github.com/iliyamo/livescore-api-links/internal/model"

// Project maps a snapshot document to the reduced shape for viewType.
//
//	POINTS_TABLE -> {standings, summary}
//	ALIVE_STATUS -> {teamStatus, summary}
//	FULL         -> the whole document, unfiltered
//
// Projection is total for the two filtered views: substructures missing
// from the document come back as empty containers, never as an error or a
// null. View types are validated at the boundary; anything unrecognized
// here projects as FULL.
func Project(snap *model.MatchSnapshot, viewType string) map[string]interface{} {
	doc := snap.Doc
	if doc == nil {
		doc = map[string]interface{}{}
	}
	switch viewType {
	case model.ViewTypePointsTable:
		return map[string]interface{}{
			"standings": arrayField(doc, "standings"),
			"summary":   objectField(doc, "summary"),
		}
	case model.ViewTypeAliveStatus:
		return map[string]interface{}{
			"teamStatus": arrayField(doc, "teamStatus"),
			"summary":    objectField(doc, "summary"),
		}
	default:
		return doc
	}
}

// arrayField returns doc[key] when it is a JSON array, else an empty array.
func arrayField(doc map[string]interface{}, key string) []interface{} {
	if v, ok := doc[key].([]interface{}); ok && v != nil {
		return v
	}
	return []interface{}{}
}

// objectField returns doc[key] when it is a JSON object, else an empty object.
func objectField(doc map[string]interface{}, key string) map[string]interface{} {
	if v, ok := doc[key].(map[string]interface{}); ok && v != nil {
		return v
	}
	return map[string]interface{}{}
}

package ranking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/verte-zerg/typetest/internal/model"
)

// ExportVersion is the only accepted export document version.
const ExportVersion = 1

var (
	// ErrMalformedDocument reports an import that is not a valid export document.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrUnsupportedVersion reports an import with a version other than ExportVersion.
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// Document is the versioned export format.
type Document struct {
	Version     int            `json:"version"`
	ExportedAt  time.Time      `json:"exportedAt"`
	Leaderboard Leaderboard    `json:"leaderboard"`
	History     []model.Result `json:"history"`
}

// BuildDocument assembles an export document from raw persisted JSON. Empty
// or invalid raw values are exported as empty collections.
func BuildDocument(exportedAt time.Time, leaderboardJSON, historyJSON []byte) ([]byte, error) {
	if !gjson.ValidBytes(leaderboardJSON) || !gjson.ParseBytes(leaderboardJSON).IsObject() {
		leaderboardJSON = []byte("{}")
	}
	if !gjson.ValidBytes(historyJSON) || !gjson.ParseBytes(historyJSON).IsArray() {
		historyJSON = []byte("[]")
	}
	doc := []byte("{}")
	var err error
	if doc, err = sjson.SetBytes(doc, "version", ExportVersion); err != nil {
		return nil, fmt.Errorf("failed to set version: %w", err)
	}
	if doc, err = sjson.SetBytes(doc, "exportedAt", exportedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return nil, fmt.Errorf("failed to set exportedAt: %w", err)
	}
	if doc, err = sjson.SetRawBytes(doc, "leaderboard", leaderboardJSON); err != nil {
		return nil, fmt.Errorf("failed to set leaderboard: %w", err)
	}
	if doc, err = sjson.SetRawBytes(doc, "history", historyJSON); err != nil {
		return nil, fmt.Errorf("failed to set history: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent document: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseDocument validates an export document as a whole and sanitizes its
// contents. Any structural problem rejects the document entirely.
func ParseDocument(data []byte) (Document, error) {
	if !gjson.ValidBytes(data) {
		return Document{}, fmt.Errorf("%w: invalid JSON", ErrMalformedDocument)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Document{}, fmt.Errorf("%w: not an object", ErrMalformedDocument)
	}
	version := root.Get("version")
	if version.Type != gjson.Number || version.Num != ExportVersion {
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedVersion, version.Raw)
	}
	leaderboard := root.Get("leaderboard")
	history := root.Get("history")
	if !leaderboard.IsObject() || !history.IsArray() {
		return Document{}, fmt.Errorf("%w: unexpected structure", ErrMalformedDocument)
	}
	doc := Document{
		Version:     ExportVersion,
		Leaderboard: SanitizeLeaderboard(leaderboard),
		History:     SanitizeHistory(history),
	}
	if ts, err := time.Parse(time.RFC3339Nano, root.Get("exportedAt").String()); err == nil {
		doc.ExportedAt = ts
	}
	return doc, nil
}

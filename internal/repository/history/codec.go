package history

import (
	"errors"
	"fmt"

	"github.com/NordCoder/uptimekv/internal/domain/uptime"
	json "github.com/goccy/go-json"
)

// SchemaVersion is written into every stored document. Bump it whenever the
// document shape or the meaning of a field changes.
const SchemaVersion = 1

var (
	ErrUnsupportedVersion = errors.New("history: unsupported document version")
	ErrCorruptDocument    = errors.New("history: corrupt document")
)

type document struct {
	Version int                  `json:"v"`
	History []uptime.ProbeRecord `json:"history"`
	Totals  uptime.Totals        `json:"totals"`
}

func Encode(h uptime.HostHistory) ([]byte, error) {
	doc := document{Version: SchemaVersion, History: h.History, Totals: h.Totals}
	if doc.History == nil {
		doc.History = []uptime.ProbeRecord{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return b, nil
}

// Decode reads a stored document. Documents without a version tag predate
// versioning and share the version 1 layout.
func Decode(b []byte) (uptime.HostHistory, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return uptime.HostHistory{}, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if doc.Version < 0 || doc.Version > SchemaVersion {
		return uptime.HostHistory{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	t := doc.Totals
	switch {
	case t.Checks < 0 || t.Up < 0 || t.SumLatency < 0:
		return uptime.HostHistory{}, fmt.Errorf("%w: negative totals", ErrCorruptDocument)
	case t.Up > t.Checks:
		return uptime.HostHistory{}, fmt.Errorf("%w: up %d > checks %d", ErrCorruptDocument, t.Up, t.Checks)
	case int64(len(doc.History)) > t.Checks:
		return uptime.HostHistory{}, fmt.Errorf("%w: %d entries > checks %d", ErrCorruptDocument, len(doc.History), t.Checks)
	}

	return uptime.HostHistory{History: doc.History, Totals: doc.Totals}, nil
}

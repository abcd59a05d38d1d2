package store

import (
	"bytes"
	"fmt"

	"github.com/rcliao/thisismy/internal/model"
)

// encodeSnapshot renders snap in the export format for the data column.
func encodeSnapshot(snap *model.Snapshot) (string, error) {
	if snap == nil {
		snap = &model.Snapshot{}
	}
	var buf bytes.Buffer
	if err := model.EncodeSnapshot(&buf, snap); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.String(), nil
}

// decodeSnapshot parses a data column. Entries that no longer decode are
// recorded on the snapshot and skipped when it is merged.
func decodeSnapshot(data string) (*model.Snapshot, error) {
	snap, err := model.DecodeSnapshot(bytes.NewReader([]byte(data)))
	if err != nil {
		return nil, fmt.Errorf("decode stored snapshot: %w", err)
	}
	return snap, nil
}

func itemCount(snap *model.Snapshot) int {
	if snap == nil {
		return 0
	}
	return len(snap.SelectionOrder)
}

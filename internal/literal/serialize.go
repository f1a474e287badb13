package literal

import "encoding/json"

type snapshot struct {
	Version int                     `json:"version"`
	Terms   map[string][]Occurrence `json:"terms"`
}

const snapshotVersion = 1

// MarshalJSON serializes the index in a compact, version-tagged form.
func (idx *Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{Version: snapshotVersion, Terms: idx.terms})
}

// UnmarshalJSON reloads a previously persisted index.
func (idx *Index) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	idx.terms = snap.Terms
	if idx.terms == nil {
		idx.terms = make(map[string][]Occurrence)
	}
	return nil
}

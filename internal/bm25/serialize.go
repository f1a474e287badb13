package bm25

import "encoding/json"

// snapshot is the on-disk, self-describing, version-tagged representation
// of an Index: document ids, their token streams, the document-frequency
// map, and the aggregate counters needed to reconstruct avgDocLength
// without reprocessing the corpus.
type snapshot struct {
	Version   int                 `json:"version"`
	DocOrder  []string            `json:"doc_order"`
	DocTokens map[string][]string `json:"doc_tokens"`
	DocLength map[string]int      `json:"doc_length"`
	DocFreq   map[string]int      `json:"doc_freq"`
	TotalDocs int                 `json:"total_docs"`
	TotalLen  int                 `json:"total_len"`
}

const snapshotVersion = 1

// MarshalJSON serializes the index to its compact persisted form.
func (idx *Index) MarshalJSON() ([]byte, error) {
	snap := snapshot{
		Version:   snapshotVersion,
		DocOrder:  idx.docOrder,
		DocTokens: idx.docTokens,
		DocLength: idx.docLength,
		DocFreq:   idx.docFreq,
		TotalDocs: idx.totalDocs,
		TotalLen:  idx.totalLen,
	}
	return json.Marshal(snap)
}

// UnmarshalJSON reloads an index from its persisted form without
// reprocessing the original documents.
func (idx *Index) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	idx.docOrder = snap.DocOrder
	idx.docTokens = snap.DocTokens
	idx.docLength = snap.DocLength
	idx.docFreq = snap.DocFreq
	idx.totalDocs = snap.TotalDocs
	idx.totalLen = snap.TotalLen

	if idx.docTokens == nil {
		idx.docTokens = make(map[string][]string)
	}
	if idx.docLength == nil {
		idx.docLength = make(map[string]int)
	}
	if idx.docFreq == nil {
		idx.docFreq = make(map[string]int)
	}
	return nil
}

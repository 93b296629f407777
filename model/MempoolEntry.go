package model

// MempoolEntry is one pending transaction as read from a mempool source. Raw
// has not been decoded or checked in any way.
type MempoolEntry struct {
	Name string
	Raw  []byte
}

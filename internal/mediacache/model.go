package mediacache

import "time"

// Item is one stored media blob, keyed by (ContentHash, OriginRef).
// A single logical content hash may legitimately exist once per distinct
// origin reference.
type Item struct {
	ContentHash string    `json:"hash"`
	OriginRef   string    `json:"origin_ref"`
	Base64      string    `json:"base64"`
	StoredAt    time.Time `json:"time"`
}

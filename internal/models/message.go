package models

// Message is the canonical form of one relayed chat message, as stored in
// the channel buffers and broadcast to subscribers. The normalizer guarantees
// ID is never empty, Content is length-capped, and both timestamps are valid
// epoch milliseconds.
type Message struct {
	ID         string `json:"id"`
	Author     string `json:"author"`
	Content    string `json:"content"` // may contain embedded markup
	CreatedAt  int64  `json:"createdAt"`
	ReceivedAt int64  `json:"receivedAt"` // set at ingest, never by the upstream source
}

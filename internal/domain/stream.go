package domain

// Stream names
const (
	StreamSessionIdentity = "stream:session:identity"
)

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}

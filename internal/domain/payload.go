package domain

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// PayloadHeader holds the profile settings that change what the
// transformation produces for identical messages.
type PayloadHeader struct {
	Model string `json:"model"`
	Tunes Tunes  `json:"tunes"`
}

func HeaderOf(profile ServiceProfile) PayloadHeader {
	return PayloadHeader{Model: profile.Model, Tunes: profile.Tunes}
}

// Payload is exactly what is sent to the transformation for one document.
type Payload struct {
	Profile  ServiceProfile
	Header   []byte
	Messages []ChatMessage
}

// Fingerprint covers the header and every message in order.
func (p Payload) Fingerprint() Fingerprint {
	parts := make([]string, 0, 1+2*len(p.Messages))
	parts = append(parts, string(p.Header))
	for _, message := range p.Messages {
		parts = append(parts, string(message.Role), message.Content)
	}
	return ChecksumParts(parts...)
}

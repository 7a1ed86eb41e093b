// Package schema is a stand-in for the message structs that a real
// deployment would obtain from a protocol-buffer-family schema compiler,
// one struct per template id. Reproducing that wire format byte-for-byte
// is out of scope here, so every template id shares one envelope type,
// carried over the wire as JSON rather than a compiled binary encoding.
package schema

import "encoding/json"

// Message is the envelope for every request and reply on the wire,
// regardless of its template id. Fields holds the business payload
// of the specific operation (e.g. "symbol", "qty", "price"); the
// envelope itself only carries what every template shares.
type Message struct {
	TemplateID int            `json:"template_id"`
	UserMsg    []string       `json:"user_msg,omitempty"`
	RpCode     []string       `json:"rp_code,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// Encode serializes a Message for transmission inside a single
// WebSocket binary frame (before the frame codec's length prefix).
func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses a Message from a frame payload.
func Decode(b []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// Get returns a field value and whether it was present.
func (m Message) Get(key string) (any, bool) {
	v, ok := m.Fields[key]
	return v, ok
}

// CorrelationTag returns the first element of UserMsg, if any.
func (m Message) CorrelationTag() (string, bool) {
	if len(m.UserMsg) == 0 {
		return "", false
	}
	return m.UserMsg[0], true
}

// Code returns the first element of RpCode, if any.
func (m Message) Code() (string, bool) {
	if len(m.RpCode) == 0 {
		return "", false
	}
	return m.RpCode[0], true
}

// ErrorText returns the error text carried after the code
// in RpCode, if the server sent one.
func (m Message) ErrorText() (string, bool) {
	if len(m.RpCode) < 2 {
		return "", false
	}
	return m.RpCode[1], true
}

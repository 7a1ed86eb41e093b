package plant

import (
	"fmt"

	"github.com/rithmic-go/rithmic/internal/schema"
)

// InboundResponse is the canonical record produced by decoding a frame.
type InboundResponse struct {
	TemplateID     int
	CorrelationTag string
	HasTag         bool
	RpCode         string
	HasRpCode      bool
	ErrorText      string
	Fields         map[string]any
	IsUpdate       bool
}

// decodeInbound strips the frame header and classifies the wrapped
// message as either a reply-to-request or a subscription update.
func decodeInbound(frame []byte) (InboundResponse, error) {
	payload, err := DecodeFrame(frame)
	if err != nil {
		return InboundResponse{}, err
	}

	msg, err := schema.Decode(payload)
	if err != nil {
		return InboundResponse{}, fmt.Errorf("%w: %v", ErrDecode, err) //nolint:errorlint // wrapping ErrDecode explicitly.
	}

	r := InboundResponse{
		TemplateID: msg.TemplateID,
		Fields:     msg.Fields,
	}

	if tag, ok := msg.CorrelationTag(); ok {
		r.CorrelationTag = tag
		r.HasTag = true
	}
	if code, ok := msg.Code(); ok {
		r.RpCode = code
		r.HasRpCode = true
	}
	if text, ok := msg.ErrorText(); ok {
		r.ErrorText = text
	}

	r.IsUpdate = updateAllowlist[r.TemplateID] || !r.HasTag

	return r, nil
}

// isTerminalReply reports whether this response part is terminal: for
// single-part template ids, the first (and only) delivery always is;
// for multi-part template ids, only a reply whose rp_code is present
// is terminal (rp_code == "0" means end-of-stream, anything else means
// an error terminator — either way, no more parts follow).
func (r InboundResponse) isTerminalReply() bool {
	if !multiPartTemplates[r.TemplateID] {
		return true
	}
	return r.HasRpCode
}

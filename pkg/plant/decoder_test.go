package plant

import (
	"testing"

	"github.com/rithmic-go/rithmic/internal/schema"
)

func frameFor(t *testing.T, msg schema.Message) []byte {
	t.Helper()
	b, err := schema.Encode(msg)
	if err != nil {
		t.Fatalf("schema.Encode() error = %v", err)
	}
	return EncodeFrame(b)
}

func TestDecodeInboundUpdateByAllowlist(t *testing.T) {
	frame := frameFor(t, schema.Message{TemplateID: templateSubscribeOrderUpdates})

	resp, err := decodeInbound(frame)
	if err != nil {
		t.Fatalf("decodeInbound() error = %v", err)
	}
	if !resp.IsUpdate {
		t.Error("IsUpdate = false, want true for allowlisted template with no tag")
	}
}

func TestDecodeInboundUpdateByMissingTag(t *testing.T) {
	frame := frameFor(t, schema.Message{TemplateID: templateLoginResponse})

	resp, err := decodeInbound(frame)
	if err != nil {
		t.Fatalf("decodeInbound() error = %v", err)
	}
	if !resp.IsUpdate {
		t.Error("IsUpdate = false, want true for a reply with no correlation tag")
	}
}

func TestDecodeInboundReplyWithTagIsNotUpdate(t *testing.T) {
	frame := frameFor(t, schema.Message{TemplateID: templateLoginResponse, UserMsg: []string{"1"}, RpCode: []string{"0"}})

	resp, err := decodeInbound(frame)
	if err != nil {
		t.Fatalf("decodeInbound() error = %v", err)
	}
	if resp.IsUpdate {
		t.Error("IsUpdate = true, want false for a tagged reply")
	}
	if resp.CorrelationTag != "1" {
		t.Errorf("CorrelationTag = %q, want 1", resp.CorrelationTag)
	}
	if resp.RpCode != "0" {
		t.Errorf("RpCode = %q, want 0", resp.RpCode)
	}
}

func TestDecodeInboundTaggedAllowlistedStaysReply(t *testing.T) {
	// An update-allowlisted template that nonetheless carries a correlation
	// tag (e.g. a broadcast message the server happened to stamp) is still
	// routed to the registry, per property 6: "delivered to the registry
	// even if its template id could otherwise be an update" is about the
	// registry's delivery step, not the decoder's is_update flag — the
	// flag reflects the template id's default role, and the actor's
	// registry.deliver still takes priority when a tag is registered.
	frame := frameFor(t, schema.Message{TemplateID: templateSubscribeOrderUpdates, UserMsg: []string{"5"}})

	resp, err := decodeInbound(frame)
	if err != nil {
		t.Fatalf("decodeInbound() error = %v", err)
	}
	if !resp.HasTag || resp.CorrelationTag != "5" {
		t.Errorf("CorrelationTag = (%q, %v), want (5, true)", resp.CorrelationTag, resp.HasTag)
	}
}

func TestDecodeInboundMalformedFrame(t *testing.T) {
	if _, err := decodeInbound([]byte{0, 0, 0}); err == nil {
		t.Error("decodeInbound() error = nil, want non-nil for a too-short frame")
	}
}

package plant

import (
	"fmt"
	"log/slog"
)

// pendingRequest tracks one in-flight correlation tag: the responses
// accumulated so far, and the channel its caller is awaiting.
type pendingRequest struct {
	tag         string
	accumulator []InboundResponse
	completion  chan<- []InboundResponse
}

// registry maps correlation tags to pendingRequest entries. It is
// single-owner: only the actor goroutine touches it, so it needs no
// locking of its own.
type registry struct {
	logger  *slog.Logger
	entries map[string]*pendingRequest
}

func newRegistry(logger *slog.Logger) *registry {
	return &registry{
		logger:  logger,
		entries: make(map[string]*pendingRequest),
	}
}

// register inserts a new pending entry for tag. Registering an
// already-present tag is a programming error, since correlation tags
// are unique by construction; it panics rather than silently
// overwriting another caller's in-flight request.
func (r *registry) register(tag string, completion chan<- []InboundResponse) {
	if _, exists := r.entries[tag]; exists {
		panic(fmt.Sprintf("plant: correlation tag %q registered twice", tag))
	}
	r.entries[tag] = &pendingRequest{tag: tag, completion: completion}
}

// deliver appends an inbound response to its matching pending entry,
// and completes it once a terminal part has arrived. It reports
// whether the response was matched to a registered entry.
func (r *registry) deliver(resp InboundResponse) bool {
	if !resp.HasTag {
		return false
	}

	entry, ok := r.entries[resp.CorrelationTag]
	if !ok {
		r.logger.Debug("unmatched reply", slog.String("tag", resp.CorrelationTag),
			slog.Int("template_id", resp.TemplateID))
		return false
	}

	entry.accumulator = append(entry.accumulator, resp)

	if resp.isTerminalReply() {
		delete(r.entries, resp.CorrelationTag)
		entry.completion <- entry.accumulator
		close(entry.completion)
	}

	return true
}

// fail removes tag's entry (if present) and fulfills it with a
// transport error, for a send failure discovered after registration.
func (r *registry) fail(tag string, err error) {
	entry, ok := r.entries[tag]
	if !ok {
		return
	}
	delete(r.entries, tag)
	entry.completion <- append(entry.accumulator, InboundResponse{
		HasRpCode: true,
		RpCode:    "transport",
		ErrorText: err.Error(),
	})
	close(entry.completion)
}

// drainAll completes every outstanding entry with a connection-lost
// marker (an InboundResponse carrying ErrTransport's text as its error
// text) and empties the registry. Called on actor shutdown.
func (r *registry) drainAll() {
	for tag, entry := range r.entries {
		entry.completion <- append(entry.accumulator, InboundResponse{
			HasRpCode: true,
			RpCode:    "transport",
			ErrorText: ErrTransport.Error(),
		})
		close(entry.completion)
		delete(r.entries, tag)
	}
}

package plant

// command is a caller request submitted to the actor's queue. encode
// builds the outbound frame against the actor's encoder; reply (when
// non-nil) is a buffered channel of capacity 1 that the actor fulfills
// exactly once, either with the registry's accumulated responses or,
// for a send failure, with a single synthetic transport-error response.
//
// close, when set, asks the actor to send a WebSocket close frame and
// stop the event loop after any in-flight encode/register/send for
// this command (there is none) — it bypasses the encoder entirely.
type command struct {
	name   string
	encode func(*encoder) ([]byte, string, error)
	reply  chan []InboundResponse
	close  bool
}

func newCommand(name string, encode func(*encoder) ([]byte, string, error)) command {
	return command{name: name, encode: encode, reply: make(chan []InboundResponse, 1)}
}

var closeCommand = command{name: "close", close: true}

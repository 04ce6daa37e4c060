// Package id provides ID generation for requests, commands and streams.
//
// Request and command IDs are prefixed ULIDs, so they sort by creation time and
// read well in logs (req_01H..., cmd_01H...). Stream IDs identify WebSocket
// connections and use random UUIDs.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// RequestID identifies an HTTP request
type RequestID string

// CommandID identifies a dispatched command
type CommandID string

// StreamID identifies a WebSocket connection
type StreamID string

const (
	RequestPrefix = "req"
	CommandPrefix = "cmd"
	StreamPrefix  = "stream"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewCommandID generates a new command ID
func NewCommandID() CommandID {
	return CommandID(Default().GenerateWithPrefix(CommandPrefix))
}

// NewStreamID generates a new stream ID
func NewStreamID() StreamID {
	return StreamID(StreamPrefix + "_" + uuid.NewString())
}

func (id RequestID) String() string { return string(id) }
func (id CommandID) String() string { return string(id) }
func (id StreamID) String() string  { return string(id) }

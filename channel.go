package vawthil

import (
	"errors"
	"sync"
)

// Channel errors. ErrReadTimeout is transient: the tick proceeds with the
// default duty. Anything else from a channel is fatal to the run.
var (
	ErrReadTimeout   = errors.New("channel read timed out")
	ErrChannelClosed = errors.New("channel is closed")
)

// LineChannel is the duplex line-oriented link to the controller under test.
// ReadLine waits at most the channel's configured timeout for one line;
// WriteLine sends one line including the terminator. The harness owns the
// channel exclusively for the lifetime of a run and closes it on every exit
// path.
type LineChannel interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
}

// ScriptedReply is one canned controller response for a ScriptChannel.
type ScriptedReply struct {
	Line string
	Err  error // returned instead of the line if set
}

// ScriptChannel is an in-memory LineChannel that replays a deterministic
// script of controller responses and records everything written to it. Once
// the script is exhausted every read times out, which mirrors a silent
// controller.
type ScriptChannel struct {
	mu      sync.Mutex
	replies []ScriptedReply
	next    int
	writes  []string
	closed  bool

	WriteErr error // if set, WriteLine fails with this error
}

// NewScriptChannel returns a channel that replies with the given lines in
// order.
func NewScriptChannel(lines ...string) *ScriptChannel {
	ch := &ScriptChannel{}
	for _, l := range lines {
		ch.replies = append(ch.replies, ScriptedReply{Line: l})
	}
	return ch
}

// NewScriptChannelReplies returns a channel replaying the given replies,
// errors included.
func NewScriptChannelReplies(replies ...ScriptedReply) *ScriptChannel {
	return &ScriptChannel{replies: replies}
}

func (c *ScriptChannel) ReadLine() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ErrChannelClosed
	}
	if c.next >= len(c.replies) {
		return "", ErrReadTimeout
	}
	r := c.replies[c.next]
	c.next++
	if r.Err != nil {
		return "", r.Err
	}
	return r.Line, nil
}

func (c *ScriptChannel) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	if c.WriteErr != nil {
		return c.WriteErr
	}
	c.writes = append(c.writes, line)
	return nil
}

func (c *ScriptChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Writes returns every line written to the channel so far.
func (c *ScriptChannel) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

// Closed reports whether Close has been called.
func (c *ScriptChannel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package scpi

import (
	"fmt"
	"net"
	"time"

	"github.com/greenlab/go-dmm/pkg/log"
)

const (
	// MeterPort is the raw SCPI socket port common to both supported meters.
	MeterPort = 5025

	Terminator = '\n'

	DefaultRecvSize    = 256
	DefaultReadTimeout = 10 * time.Second
	DefaultDialTimeout = 10 * time.Second

	// Lab networks are flaky. A fixed backoff with a small attempt budget
	// bounds both recovery time and worst-case stall.
	DefaultBackoff     = 30 * time.Second
	DefaultMaxAttempts = 5
)

// Transport is the byte-stream link to one instrument. Exactly one request
// is outstanding at a time; implementations are not safe for concurrent use.
type Transport interface {
	Connect() error
	Send(payload []byte) error
	Receive(maxBytes int) ([]byte, error)
	Reconnect() error
	Close() error
}

// Conn is the TCP Transport used against real instruments.
type Conn struct {
	Address     string
	Port        int
	ReadTimeout time.Duration
	DialTimeout time.Duration
	Backoff     time.Duration
	MaxAttempts int

	conn net.Conn
}

var _ Transport = &Conn{}

func NewConn(address string, port int) *Conn {
	return &Conn{
		Address:     address,
		Port:        port,
		ReadTimeout: DefaultReadTimeout,
		DialTimeout: DefaultDialTimeout,
		Backoff:     DefaultBackoff,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Connect dials the instrument, retrying with a fixed backoff until the
// attempt budget is exhausted.
func (c *Conn) Connect() error {
	addr := fmt.Sprintf("%s:%d", c.Address, c.Port)
	var last error
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		conn, err := net.DialTimeout("tcp", addr, c.DialTimeout)
		if err == nil {
			c.conn = conn
			return nil
		}
		last = err
		log.Warning("Attempt %d of %d. Connection to %s failed: %v",
			attempt, c.MaxAttempts, addr, err)
		if attempt < c.MaxAttempts {
			log.Info("Will retry in %s...", c.Backoff)
			time.Sleep(c.Backoff)
		}
	}
	return ErrConnection{
		Address:  c.Address,
		Port:     c.Port,
		Attempts: c.MaxAttempts,
		Last:     last,
	}
}

// Reconnect tears the connection down and dials again with the same
// retry policy. Used by the incremental drain to resume after a timeout.
func (c *Conn) Reconnect() error {
	c.Close()
	return c.Connect()
}

// Send writes one command line, appending the terminator if absent.
func (c *Conn) Send(payload []byte) error {
	if c.conn == nil {
		return ErrTransport{Op: "send", Err: net.ErrClosed}
	}
	if len(payload) == 0 || payload[len(payload)-1] != Terminator {
		payload = append(payload, Terminator)
	}
	if _, err := c.conn.Write(payload); err != nil {
		return ErrTransport{Op: "send", Err: err}
	}
	return nil
}

// Receive performs one read bounded by ReadTimeout. A timeout is reported
// as ErrTimeout, distinct from other transport failures.
func (c *Conn) Receive(maxBytes int) ([]byte, error) {
	if c.conn == nil {
		return nil, ErrTransport{Op: "receive", Err: net.ErrClosed}
	}
	if err := c.conn.SetReadDeadline(time.Now().Add(c.ReadTimeout)); err != nil {
		return nil, ErrTransport{Op: "receive", Err: err}
	}
	buf := make([]byte, maxBytes)
	n, err := c.conn.Read(buf)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, ErrTimeout{Op: "receive"}
		}
		return nil, ErrTransport{Op: "receive", Err: err}
	}
	return buf[:n], nil
}

// Close is idempotent.
func (c *Conn) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

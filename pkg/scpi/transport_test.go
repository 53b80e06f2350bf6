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
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoListener accepts one connection and answers every line with a
// canned response.
func echoListener(t *testing.T, response string) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			conn.Write([]byte(response))
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func newTestConn(address string, port int) *Conn {
	c := NewConn(address, port)
	c.ReadTimeout = 100 * time.Millisecond
	c.DialTimeout = time.Second
	c.Backoff = time.Millisecond
	c.MaxAttempts = 2
	return c
}

func TestConnSendReceive(t *testing.T) {
	address, port := echoListener(t, "34465A\n")
	c := newTestConn(address, port)
	require.NoError(t, c.Connect())
	defer c.Close()

	require.NoError(t, c.Send([]byte("*IDN?")))
	resp, err := c.Receive(DefaultRecvSize)
	require.NoError(t, err)
	assert.Equal(t, "34465A\n", string(resp))
}

func TestConnSend_AppendsTerminatorOnce(t *testing.T) {
	address, port := echoListener(t, "ok\n")
	c := newTestConn(address, port)
	require.NoError(t, c.Connect())
	defer c.Close()

	// Already-terminated payloads are sent as-is; the echo server answers
	// once per line.
	require.NoError(t, c.Send([]byte("*CLS\n")))
	resp, err := c.Receive(DefaultRecvSize)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(resp))
}

func TestConnReceive_Timeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go ln.Accept()

	addr := ln.Addr().(*net.TCPAddr)
	c := newTestConn(addr.IP.String(), addr.Port)
	require.NoError(t, c.Connect())
	defer c.Close()

	_, err = c.Receive(DefaultRecvSize)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.IsType(t, ErrTimeout{}, err)
}

func TestConnConnect_Exhausted(t *testing.T) {
	// Grab a free port and close the listener so nothing answers.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	c := newTestConn(addr.IP.String(), addr.Port)
	err = c.Connect()
	require.Error(t, err)

	var connErr ErrConnection
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, 2, connErr.Attempts)
}

func TestConnClose_Idempotent(t *testing.T) {
	address, port := echoListener(t, "ok\n")
	c := newTestConn(address, port)
	require.NoError(t, c.Connect())
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	err := c.Send([]byte("*IDN?"))
	require.Error(t, err)
	assert.IsType(t, ErrTransport{}, err)
}

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

package acquire

import (
	"context"
	"sync"
	"time"

	"github.com/greenlab/go-dmm/pkg/config"
	"github.com/greenlab/go-dmm/pkg/device/ifc"
	"github.com/greenlab/go-dmm/pkg/log"
	"github.com/greenlab/go-dmm/pkg/scpi"
	"github.com/greenlab/go-dmm/pkg/sink"
)

type State int

const (
	StateIdle State = iota
	StateConfiguring
	StateTriggered
	StateDraining
	StateAwaitingCompletion
	StateFetching
	StateValidated
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:               "idle",
	StateConfiguring:        "configuring",
	StateTriggered:          "triggered",
	StateDraining:           "draining",
	StateAwaitingCompletion: "awaiting_completion",
	StateFetching:           "fetching",
	StateValidated:          "validated",
	StateFailed:             "failed",
}

func (s State) String() string {
	return stateNames[s]
}

const (
	DefaultPollInterval = time.Second

	// DrainBlockSize readings per chunk, 16 ASCII bytes per reading plus
	// header slack.
	DrainBlockSize    = 10000
	DefaultChunkBytes = DrainBlockSize*16 + 256

	// MaxEmptyChunks bounds how long the drain keeps asking an idle meter
	// for data before declaring the series short. Chunks lost to a
	// reconnect never arrive, so without this the drain would spin forever.
	MaxEmptyChunks = 10
)

// Controller runs one acquisition:
// Idle -> Configuring -> Triggered -> (Draining | AwaitingCompletion) ->
// Fetching -> Validated | Failed. Both terminal states are final; a failed
// acquisition is never retried implicitly.
type Controller struct {
	device   ifc.Device
	acq      *config.AcquisitionConfig
	sink     sink.Sink
	observer Observer

	PollInterval time.Duration
	ChunkBytes   int

	mu          sync.Mutex
	state       State
	samplesDone int
}

func NewController(d ifc.Device, acq *config.AcquisitionConfig, s sink.Sink, observer Observer) *Controller {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Controller{
		device:       d,
		acq:          acq,
		sink:         s,
		observer:     observer,
		PollInterval: DefaultPollInterval,
		ChunkBytes:   DefaultChunkBytes,
		state:        StateIdle,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Progress returns the accumulated and expected sample counts.
func (c *Controller) Progress() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.samplesDone, c.acq.SampleCount()
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	log.Debug("Acquisition state: %s", s)
}

func (c *Controller) setProgress(done int) {
	c.mu.Lock()
	c.samplesDone = done
	c.mu.Unlock()
}

func (c *Controller) fail(err error) error {
	c.setState(StateFailed)
	log.Error("Acquisition failed: %v", err)
	return err
}

// Run executes a full measurement. The strategy is chosen once, by the
// requested sample count against the instrument memory limit: within the
// limit the meter buffers everything and one bulk fetch follows completion;
// beyond it readings are drained incrementally while the measurement runs.
func (c *Controller) Run(ctx context.Context) error {
	expected := c.acq.SampleCount()
	if expected <= 0 {
		return c.fail(ErrNoSamplesRequested{})
	}

	c.setState(StateConfiguring)
	if err := c.device.Reset(); err != nil {
		return c.fail(err)
	}
	if err := c.device.ClearStatus(); err != nil {
		return c.fail(err)
	}
	if reg, err := c.device.OperationRegister(); err == nil {
		reg.Describe()
	}
	if err := c.device.Configure(c.acq); err != nil {
		return c.fail(err)
	}

	c.setState(StateTriggered)
	if err := c.device.Trigger(c.acq); err != nil {
		return c.fail(err)
	}

	if expected > c.device.MemoryLimit() {
		c.setState(StateDraining)
		if err := c.drain(ctx, expected); err != nil {
			return c.fail(err)
		}
	} else {
		c.setState(StateAwaitingCompletion)
		if err := c.await(ctx); err != nil {
			return c.fail(err)
		}
		c.setState(StateFetching)
		if err := c.fetch(); err != nil {
			return c.fail(err)
		}
	}

	c.setState(StateValidated)
	return nil
}

// Fetch downloads a completed measurement from the meter buffer without
// reconfiguring or triggering.
func (c *Controller) Fetch() error {
	c.setState(StateFetching)
	if err := c.fetch(); err != nil {
		return c.fail(err)
	}
	c.setState(StateValidated)
	return nil
}

func (c *Controller) fetch() error {
	series, err := c.device.BulkFetch(c.acq)
	if err != nil {
		return err
	}
	c.setProgress(len(series))
	expected := c.acq.SampleCount()
	if len(series) != expected {
		// Partial acceptance is disallowed; the sink never sees a series
		// with the wrong count.
		return ErrValidation{Expected: expected, Got: len(series)}
	}
	return c.sink.Write(series, c.acq.Output)
}

// await polls the operation register once per interval until the measuring
// bit clears. An unreadable register ends the wait with a warning; count
// validation after the fetch catches a premature exit.
func (c *Controller) await(ctx context.Context) error {
	start := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		measuring, known := c.device.Measuring()
		if !known {
			log.Warning("Could not determine measuring state; proceeding to fetch")
			return nil
		}
		if !measuring {
			return nil
		}
		c.observer.Update(int(time.Since(start).Seconds()), int(c.acq.Duration))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.PollInterval):
		}
	}
}

// drain repeatedly pulls bounded chunks while the measurement runs and
// persists them incrementally. A read timeout triggers one reconnect and
// one retry of the same chunk request; the chunk the meter retired in
// between is lost, an accepted risk of this strategy.
func (c *Controller) drain(ctx context.Context, expected int) error {
	app, err := c.sink.Appender(c.acq.Output)
	if err != nil {
		return err
	}
	defer app.Close()

	total := 0
	empty := 0
	for total < expected {
		if err := ctx.Err(); err != nil {
			return err
		}
		samples, err := c.drainChunk()
		if err != nil {
			return err
		}
		if len(samples) == 0 {
			empty++
			if empty >= MaxEmptyChunks {
				return ErrValidation{Expected: expected, Got: total}
			}
			log.Debug("No data received")
			continue
		}
		empty = 0
		total += len(samples)
		if err := app.Append(samples); err != nil {
			return err
		}
		c.setProgress(total)
		c.observer.Update(total, expected)
	}
	return app.Commit(total)
}

func (c *Controller) drainChunk() ([]float64, error) {
	samples, err := c.device.DrainChunk(c.ChunkBytes)
	if err == nil || !scpi.IsTimeout(err) {
		return samples, err
	}
	log.Warning("Timeout waiting for block data. Reconnecting...")
	if rerr := c.device.Reconnect(); rerr != nil {
		return nil, rerr
	}
	return c.device.DrainChunk(c.ChunkBytes)
}

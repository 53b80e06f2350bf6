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

package sink

import (
	"bufio"
	"os"
	"strconv"

	"github.com/greenlab/go-dmm/pkg/log"
)

// Sink receives decoded sample series for persistence. A destination that
// already holds data is rejected, never overwritten.
type Sink interface {
	// Write persists a complete series to dest in one shot.
	Write(series []float64, dest string) error
	// Appender opens dest for incremental chunk writes.
	Appender(dest string) (Appender, error)
}

// Appender accumulates chunks into one destination. Commit records the
// destination in the catalog; an uncommitted destination stays out of the
// ledger so a partial drain is visible as such.
type Appender interface {
	Append(series []float64) error
	Commit(samples int) error
	Close() error
}

// FileSink writes one reading per line, guarded by the catalog.
type FileSink struct {
	catalog *Catalog
}

var _ Sink = &FileSink{}

func NewFileSink(catalog *Catalog) *FileSink {
	return &FileSink{catalog: catalog}
}

func (s *FileSink) check(dest string) error {
	known, err := s.catalog.Contains(dest)
	if err != nil {
		return err
	}
	if known {
		return ErrDestinationExists{Path: dest}
	}
	if _, err := os.Stat(dest); err == nil {
		return ErrDestinationExists{Path: dest}
	}
	return nil
}

func (s *FileSink) Write(series []float64, dest string) error {
	if err := s.check(dest); err != nil {
		return err
	}
	app, err := s.open(dest)
	if err != nil {
		return err
	}
	if err := app.Append(series); err != nil {
		app.Close()
		return err
	}
	if err := app.Commit(len(series)); err != nil {
		return err
	}
	log.Info("Data written to file %s", dest)
	return nil
}

func (s *FileSink) Appender(dest string) (Appender, error) {
	if err := s.check(dest); err != nil {
		return nil, err
	}
	return s.open(dest)
}

func (s *FileSink) open(dest string) (*fileAppender, error) {
	file, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		log.Error("Error while creating file: %s", dest)
		return nil, err
	}
	return &fileAppender{
		catalog: s.catalog,
		dest:    dest,
		file:    file,
		w:       bufio.NewWriter(file),
	}, nil
}

type fileAppender struct {
	catalog *Catalog
	dest    string
	file    *os.File
	w       *bufio.Writer
}

func (a *fileAppender) Append(series []float64) error {
	for _, value := range series {
		if _, err := a.w.WriteString(strconv.FormatFloat(value, 'g', -1, 64)); err != nil {
			return err
		}
		if err := a.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

func (a *fileAppender) Commit(samples int) error {
	if err := a.Close(); err != nil {
		return err
	}
	return a.catalog.Record(a.dest, samples)
}

func (a *fileAppender) Close() error {
	if a.file == nil {
		return nil
	}
	if err := a.w.Flush(); err != nil {
		return err
	}
	a.file.Sync()
	err := a.file.Close()
	a.file = nil
	return err
}

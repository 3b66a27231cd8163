// Package eventlog records the events of a table
// as a journal of CBOR records.
//
// Records are written with Core Deterministic Encoding
// so the same sequence of events always produces
// identical journal bytes.
package eventlog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/powerhouse-inc/go-datatable"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// ColumnType and other enums are written by name
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("eventlog: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("eventlog: CBOR decoder initialization failed: " + err.Error())
	}
}

// Record is a journal entry for one table event.
type Record struct {
	Seq  uint64              `cbor:"seq"`
	Time time.Time           `cbor:"time"`
	Name datatable.EventName `cbor:"name"`
	// Payload is the CBOR encoded event.
	Payload cbor.RawMessage `cbor:"payload"`
	// Failure is the error message of a datatable.FailureEvent.
	Failure string `cbor:"failure,omitempty"`
}

// Decode decodes the payload of the record into
// a pointer to an event type or any.
func (r *Record) Decode(into any) error {
	return decMode.Unmarshal(r.Payload, into)
}

// Recorder appends a Record to its writer
// for every event it receives.
type Recorder struct {
	enc    *cbor.Encoder
	logger *slog.Logger
	seq    uint64
	err    error

	// Now returns the time of a record, defaults to time.Now.
	Now func() time.Time
}

// NewRecorder returns a Recorder writing to w.
// A nil logger uses slog.Default().
func NewRecorder(w io.Writer, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		enc:    encMode.NewEncoder(w),
		logger: logger,
		Now:    time.Now,
	}
}

// Attach subscribes the recorder to all events of bus
// and returns a function to detach it again.
func (r *Recorder) Attach(bus *datatable.EventBus) (detach func()) {
	return bus.SubscribeAll(func(event datatable.Event) {
		if err := r.Record(event); err != nil {
			r.logger.Error("Can't record table event",
				slog.String("event", string(event.EventName())),
				slog.Any("error", err),
			)
		}
	})
}

// Record writes a Record for event.
// After the first write error the recorder stops writing
// and returns that error for all further events.
func (r *Recorder) Record(event datatable.Event) error {
	if r.err != nil {
		return r.err
	}
	payload, err := encMode.Marshal(event)
	if err != nil {
		return fmt.Errorf("can't encode %s event: %w", event.EventName(), err)
	}
	r.seq++
	rec := Record{
		Seq:     r.seq,
		Time:    r.Now().UTC(),
		Name:    event.EventName(),
		Payload: payload,
	}
	if failure, ok := event.(datatable.FailureEvent); ok && failure.Failure() != nil {
		rec.Failure = failure.Failure().Error()
	}
	if err = r.enc.Encode(&rec); err != nil {
		r.err = err
	}
	return err
}

// NumRecords returns the number of written records.
func (r *Recorder) NumRecords() uint64 { return r.seq }

// Err returns the first write error.
func (r *Recorder) Err() error { return r.err }

// ReadAll reads all records of a journal.
func ReadAll(reader io.Reader) (records []Record, err error) {
	dec := decMode.NewDecoder(reader)
	for {
		var rec Record
		err = dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("can't decode record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
}

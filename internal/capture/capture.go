// Package capture stores raw received frames as a CBOR sequence so they can
// be replayed through the decoder later.
package capture

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/danmuck/longfi/internal/protocol"
)

// Record is one captured frame.
type Record struct {
	At  time.Time `cbor:"1,keyasint"`
	Raw []byte    `cbor:"2,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("capture: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		MaxByteStringLen: protocol.MaxFrameSize * 64,
	}.DecMode()
	if err != nil {
		panic("capture: CBOR decoder initialization failed: " + err.Error())
	}
}

// Writer appends records to an io.Writer. It is safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	enc *cbor.Encoder
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: encMode.NewEncoder(w)}
}

// Record implements transport.Recorder.
func (w *Writer) Record(at time.Time, raw []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(Record{At: at.UTC(), Raw: raw}); err != nil {
		return fmt.Errorf("capture: write record: %w", err)
	}
	return nil
}

// Reader iterates over records written by Writer.
type Reader struct {
	dec *cbor.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: decMode.NewDecoder(r)}
}

// Next returns the next record or io.EOF when the stream ends cleanly.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("capture: read record: %w", err)
	}
	return rec, nil
}

// Decoded is a captured record run through the datagram decoder.
type Decoded struct {
	Record Record
	Frame  protocol.Frame
	Err    error
}

// Replay decodes every record from r and calls fn for each. Decode failures
// are reported through Decoded.Err; read failures stop the replay.
func Replay(r io.Reader, fn func(Decoded) error) error {
	rd := NewReader(r)
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		frame, derr := protocol.DecodeFrame(rec.Raw)
		if err := fn(Decoded{Record: rec, Frame: frame, Err: derr}); err != nil {
			return err
		}
	}
}

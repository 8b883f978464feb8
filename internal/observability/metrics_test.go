package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/longfi/internal/protocol"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	before := testutil.ToFloat64(codecOps.WithLabelValues(OpDecode, "nomem"))
	RecordCodec(OpDecode, 0, &protocol.Error{Kind: protocol.KindNoMem, Err: protocol.ErrShortOutput})
	if got := testutil.ToFloat64(codecOps.WithLabelValues(OpDecode, "nomem")); got != before+1 {
		t.Fatalf("nomem counter = %v, want %v", got, before+1)
	}

	bytesBefore := testutil.ToFloat64(codecBytes.WithLabelValues(OpEncode))
	RecordCodec(OpEncode, 40, nil)
	if got := testutil.ToFloat64(codecBytes.WithLabelValues(OpEncode)); got != bytesBefore+40 {
		t.Fatalf("encode bytes = %v, want %v", got, bytesBefore+40)
	}

	RecordCodec(OpDecode, 0, errors.New("foreign"))
	if got := testutil.ToFloat64(codecOps.WithLabelValues(OpDecode, "exception")); got < 1 {
		t.Fatalf("exception counter not incremented")
	}

	RecordFrame("node-a", DirectionRx, "ok", 64)
	RecordFrame("node-a", DirectionRx, "address", 0)
	if got := testutil.ToFloat64(transportFrames.WithLabelValues("node-a", DirectionRx, "address")); got != 1 {
		t.Fatalf("address drops = %v", got)
	}

	log.Info().Msg("observability/metrics: registration idempotent and recording paths executed")
}

func TestWriteMetricsExposesRecordedFamilies(t *testing.T) {
	RecordFrame("node-w", DirectionTx, "ok", 12)
	RecordCodec(OpEncode, 31, nil)

	var out bytes.Buffer
	if err := WriteMetrics(&out); err != nil {
		t.Fatalf("write metrics: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"# TYPE longfi_transport_frames_total counter",
		`longfi_transport_frames_total{direction="tx",node="node-w",outcome="ok"}`,
		"longfi_codec_bytes_total",
		"longfi_transport_payload_bytes_bucket",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, text)
		}
	}
}

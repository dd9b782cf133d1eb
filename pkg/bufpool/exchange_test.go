package bufpool

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/yuvenc/pkg/ports"
)

func TestExchange_InputFlow(t *testing.T) {
	x := NewExchange(2, 8, 2, 8)
	defer x.Close()

	idx, err := x.DequeueInputBuffer(10 * time.Millisecond)
	if err != nil {
		t.Fatalf("DequeueInputBuffer failed: %v", err)
	}
	copy(x.InputBuffers()[idx], []byte{1, 2, 3, 4})
	if err := x.QueueInputBuffer(idx, 0, 4, 132, 0); err != nil {
		t.Fatalf("QueueInputBuffer failed: %v", err)
	}

	in, err := x.NextInput(context.Background())
	if err != nil {
		t.Fatalf("NextInput failed: %v", err)
	}
	if in.Index != idx || in.PresentationTimeUs != 132 || !bytes.Equal(in.Data, []byte{1, 2, 3, 4}) {
		t.Errorf("unexpected input: %+v", in)
	}
	if in.EndOfStream() {
		t.Error("input should not be end of stream")
	}

	if err := x.RecycleInput(in.Index); err != nil {
		t.Fatalf("RecycleInput failed: %v", err)
	}
}

func TestExchange_InputExhaustionIsTryAgain(t *testing.T) {
	x := NewExchange(1, 4, 1, 4)
	defer x.Close()

	if _, err := x.DequeueInputBuffer(0); err != nil {
		t.Fatal(err)
	}
	if _, err := x.DequeueInputBuffer(time.Millisecond); !errors.Is(err, ports.ErrTryAgainLater) {
		t.Errorf("expected ErrTryAgainLater, got %v", err)
	}
}

func TestExchange_QueueValidation(t *testing.T) {
	x := NewExchange(2, 4, 1, 4)
	defer x.Close()

	idx, _ := x.DequeueInputBuffer(0)
	if err := x.QueueInputBuffer(idx, 0, 5, 0, 0); err == nil {
		t.Error("expected error for range past slot end")
	}

	other := 1 - idx
	if err := x.QueueInputBuffer(other, 0, 1, 0, 0); !errors.Is(err, ErrNotOwned) {
		t.Errorf("expected ErrNotOwned for slot never dequeued, got %v", err)
	}

	if err := x.QueueInputBuffer(idx, 0, 0, 0, ports.FlagEndOfStream); err != nil {
		t.Fatalf("queue EOS failed: %v", err)
	}

	idx2, _ := x.DequeueInputBuffer(0)
	if err := x.QueueInputBuffer(idx2, 0, 1, 0, 0); !errors.Is(err, ErrInputClosed) {
		t.Errorf("expected ErrInputClosed after EOS, got %v", err)
	}
}

func TestExchange_OutputEvents(t *testing.T) {
	x := NewExchange(1, 4, 2, 4)
	defer x.Close()
	ctx := context.Background()

	format := ports.MediaFormat{Mime: ports.MimeAVC, Width: 320, Height: 180}
	if err := x.EmitFormat(ctx, format); err != nil {
		t.Fatal(err)
	}
	if err := x.EmitOutput(ctx, []byte{9, 8, 7}, 132, ports.FlagKeyFrame); err != nil {
		t.Fatal(err)
	}

	var info ports.BufferInfo
	if _, err := x.DequeueOutputBuffer(&info, time.Millisecond); !errors.Is(err, ports.ErrOutputFormatChanged) {
		t.Fatalf("expected ErrOutputFormatChanged, got %v", err)
	}
	if got := x.OutputFormat(); got.Width != 320 || got.Height != 180 {
		t.Errorf("unexpected output format %v", got)
	}

	idx, err := x.DequeueOutputBuffer(&info, time.Millisecond)
	if err != nil {
		t.Fatalf("DequeueOutputBuffer failed: %v", err)
	}
	if info.Size != 3 || info.PresentationTimeUs != 132 || !info.Flags.Has(ports.FlagKeyFrame) {
		t.Errorf("unexpected info %+v", info)
	}
	data := x.OutputBuffers()[idx][info.Offset : info.Offset+info.Size]
	if !bytes.Equal(data, []byte{9, 8, 7}) {
		t.Errorf("unexpected data %v", data)
	}

	if err := x.ReleaseOutputBuffer(idx); err != nil {
		t.Fatalf("ReleaseOutputBuffer failed: %v", err)
	}
	if err := x.ReleaseOutputBuffer(idx); !errors.Is(err, ErrNotOwned) {
		t.Errorf("expected ErrNotOwned on double release, got %v", err)
	}

	if _, err := x.DequeueOutputBuffer(&info, 0); !errors.Is(err, ports.ErrTryAgainLater) {
		t.Errorf("expected ErrTryAgainLater on empty queue, got %v", err)
	}
}

func TestExchange_QueuedOutputCannotBeReleased(t *testing.T) {
	x := NewExchange(1, 4, 1, 2)
	defer x.Close()
	ctx := context.Background()

	if err := x.EmitOutput(ctx, []byte{1, 2}, 10, 0); err != nil {
		t.Fatal(err)
	}
	if err := x.ReleaseOutputBuffer(0); !errors.Is(err, ErrNotOwned) {
		t.Fatalf("release before dequeue: expected ErrNotOwned, got %v", err)
	}

	// The only output slot is still in the queue, so the backend cannot overwrite it.
	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := x.EmitOutput(short, []byte{9, 9}, 20, 0); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("second emit should wait for the slot, got %v", err)
	}

	var info ports.BufferInfo
	idx, err := x.DequeueOutputBuffer(&info, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	got := x.OutputBuffers()[idx][info.Offset : info.Offset+info.Size]
	if info.PresentationTimeUs != 10 || !bytes.Equal(got, []byte{1, 2}) {
		t.Errorf("dequeued pts=%d data=%v, want pts=10 data=[1 2]", info.PresentationTimeUs, got)
	}
	if err := x.ReleaseOutputBuffer(idx); err != nil {
		t.Fatalf("ReleaseOutputBuffer failed: %v", err)
	}
}

func TestExchange_RecycleInputRequiresNextInput(t *testing.T) {
	x := NewExchange(1, 4, 1, 4)
	defer x.Close()

	idx, _ := x.DequeueInputBuffer(0)
	if err := x.RecycleInput(idx); !errors.Is(err, ErrNotOwned) {
		t.Errorf("recycle of a dequeued but unqueued slot: expected ErrNotOwned, got %v", err)
	}
	if err := x.QueueInputBuffer(idx, 0, 1, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := x.RecycleInput(idx); !errors.Is(err, ErrNotOwned) {
		t.Errorf("recycle before NextInput: expected ErrNotOwned, got %v", err)
	}
	in, err := x.NextInput(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := x.RecycleInput(in.Index); err != nil {
		t.Errorf("RecycleInput failed: %v", err)
	}
}

func TestExchange_OversizedOutputSignalsBuffersChanged(t *testing.T) {
	x := NewExchange(1, 4, 1, 2)
	defer x.Close()

	stale := x.OutputBuffers()
	payload := []byte{1, 2, 3, 4, 5, 6}
	if err := x.EmitOutput(context.Background(), payload, 0, 0); err != nil {
		t.Fatal(err)
	}

	var info ports.BufferInfo
	if _, err := x.DequeueOutputBuffer(&info, time.Millisecond); !errors.Is(err, ports.ErrOutputBuffersChanged) {
		t.Fatalf("expected ErrOutputBuffersChanged, got %v", err)
	}
	idx, err := x.DequeueOutputBuffer(&info, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	fresh := x.OutputBuffers()
	if !bytes.Equal(fresh[idx][:info.Size], payload) {
		t.Error("refreshed buffers do not hold the payload")
	}
	if len(stale[idx]) >= len(payload) {
		t.Error("stale snapshot should still reference the small buffer")
	}
}

func TestExchange_FailSurfacesError(t *testing.T) {
	x := NewExchange(1, 4, 1, 4)
	defer x.Close()

	boom := errors.New("backend died")
	x.Fail(boom)

	var info ports.BufferInfo
	if _, err := x.DequeueOutputBuffer(&info, time.Millisecond); !errors.Is(err, boom) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if _, err := x.DequeueOutputBuffer(&info, 0); !errors.Is(err, boom) {
		t.Errorf("expected sticky backend error, got %v", err)
	}
}

func TestExchange_CloseUnblocksBackend(t *testing.T) {
	x := NewExchange(1, 4, 1, 4)

	errCh := make(chan error, 1)
	go func() {
		_, err := x.NextInput(context.Background())
		errCh <- err
	}()

	x.Close()
	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("NextInput was not unblocked by Close")
	}
}

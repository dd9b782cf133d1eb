package mocks

import (
	"fmt"
	"sync"
	"time"

	"github.com/user/yuvenc/pkg/ports"
)

// QueueCall records a call to QueueInputBuffer.
type QueueCall struct {
	Index              int
	Offset             int
	Size               int
	PresentationTimeUs int64
	Flags              ports.BufferFlag
	Data               []byte
}

// Codec is a mock implementation of ports.Codec.
//
// Without function fields it behaves as a synchronous loopback encoder: every queued frame
// becomes one key-frame output unit holding a copy of the frame, and the end-of-stream input
// becomes a zero-length end-of-stream unit. The first output dequeue reports a format change.
type Codec struct {
	mu sync.Mutex

	// InputCount and InputSize size the input pool. A zero InputSize uses the frame size.
	InputCount  int
	InputSize   int
	OutputCount int

	ConfigureFunc           func(cfg ports.SessionConfig) error
	StartFunc               func() error
	DequeueInputBufferFunc  func(timeout time.Duration) (int, error)
	QueueInputBufferFunc    func(index, offset, size int, presentationTimeUs int64, flags ports.BufferFlag) error
	DequeueOutputBufferFunc func(info *ports.BufferInfo, timeout time.Duration) (int, error)
	ReleaseOutputBufferFunc func(index int) error
	StopFunc                func() error

	// Recorded calls for verification
	Config          ports.SessionConfig
	ConfigureCalls  int
	StartCalls      int
	DequeueInCalls  int
	DequeueOutCalls int
	QueueCalls      []QueueCall
	ReleasedOutputs []int
	StopCalls       int
	ReleaseCalls    int

	inputs     [][]byte
	outputs    [][]byte
	freeIn     []int
	outOwned   []bool
	pending    []pendingUnit
	format     ports.MediaFormat
	formatSent bool
}

type pendingUnit struct {
	data []byte
	info ports.BufferInfo
}

// NewCodec creates a loopback mock with four input and four output slots.
func NewCodec() *Codec {
	return &Codec{InputCount: 4, OutputCount: 4}
}

func (m *Codec) Name() string {
	return "mock.encoder"
}

func (m *Codec) Configure(cfg ports.SessionConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfigureCalls++
	m.Config = cfg
	if m.ConfigureFunc != nil {
		if err := m.ConfigureFunc(cfg); err != nil {
			return err
		}
	}

	size := m.InputSize
	if size == 0 {
		size = cfg.Width * cfg.Height * 3 / 2
	}
	m.inputs = make([][]byte, m.InputCount)
	m.freeIn = m.freeIn[:0]
	for i := range m.inputs {
		m.inputs[i] = make([]byte, size)
		m.freeIn = append(m.freeIn, i)
	}
	m.outputs = make([][]byte, m.OutputCount)
	for i := range m.outputs {
		m.outputs[i] = make([]byte, size)
	}
	m.outOwned = make([]bool, m.OutputCount)
	m.format = ports.MediaFormat{Mime: cfg.Mime, Width: cfg.Width, Height: cfg.Height}
	return nil
}

func (m *Codec) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls++
	if m.StartFunc != nil {
		return m.StartFunc()
	}
	return nil
}

func (m *Codec) DequeueInputBuffer(timeout time.Duration) (int, error) {
	m.mu.Lock()
	m.DequeueInCalls++
	fn := m.DequeueInputBufferFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(timeout)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.freeIn) == 0 {
		return -1, ports.ErrTryAgainLater
	}
	idx := m.freeIn[0]
	m.freeIn = m.freeIn[1:]
	return idx, nil
}

func (m *Codec) InputBuffers() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputs
}

func (m *Codec) QueueInputBuffer(index, offset, size int, presentationTimeUs int64, flags ports.BufferFlag) error {
	m.mu.Lock()
	call := QueueCall{
		Index:              index,
		Offset:             offset,
		Size:               size,
		PresentationTimeUs: presentationTimeUs,
		Flags:              flags,
	}
	if index >= 0 && index < len(m.inputs) && offset >= 0 && offset+size <= len(m.inputs[index]) {
		call.Data = append([]byte(nil), m.inputs[index][offset:offset+size]...)
	}
	m.QueueCalls = append(m.QueueCalls, call)
	fn := m.QueueInputBufferFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(index, offset, size, presentationTimeUs, flags)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if call.Data == nil && size > 0 {
		return fmt.Errorf("mock: invalid input range %d [%d, %d)", index, offset, offset+size)
	}
	m.freeIn = append(m.freeIn, index)

	unit := pendingUnit{
		data: call.Data,
		info: ports.BufferInfo{Size: size, PresentationTimeUs: presentationTimeUs},
	}
	if flags.Has(ports.FlagEndOfStream) {
		unit.info.Flags = ports.FlagEndOfStream
	} else {
		unit.info.Flags = ports.FlagKeyFrame
	}
	m.pending = append(m.pending, unit)
	return nil
}

func (m *Codec) DequeueOutputBuffer(info *ports.BufferInfo, timeout time.Duration) (int, error) {
	m.mu.Lock()
	m.DequeueOutCalls++
	fn := m.DequeueOutputBufferFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(info, timeout)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return -1, ports.ErrTryAgainLater
	}
	if !m.formatSent {
		m.formatSent = true
		return -1, ports.ErrOutputFormatChanged
	}

	idx := -1
	for i, owned := range m.outOwned {
		if !owned {
			idx = i
			break
		}
	}
	if idx < 0 {
		return -1, ports.ErrTryAgainLater
	}

	unit := m.pending[0]
	m.pending = m.pending[1:]
	if len(m.outputs[idx]) < len(unit.data) {
		m.outputs[idx] = make([]byte, len(unit.data))
	}
	copy(m.outputs[idx], unit.data)
	m.outOwned[idx] = true
	*info = unit.info
	return idx, nil
}

func (m *Codec) OutputBuffers() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outputs
}

func (m *Codec) OutputFormat() ports.MediaFormat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.format
}

func (m *Codec) ReleaseOutputBuffer(index int) error {
	m.mu.Lock()
	m.ReleasedOutputs = append(m.ReleasedOutputs, index)
	fn := m.ReleaseOutputBufferFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(index)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.outOwned) || !m.outOwned[index] {
		return fmt.Errorf("mock: output buffer %d not owned", index)
	}
	m.outOwned[index] = false
	return nil
}

func (m *Codec) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalls++
	if m.StopFunc != nil {
		return m.StopFunc()
	}
	return nil
}

func (m *Codec) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReleaseCalls++
}

// EOSCalls returns the number of queued inputs flagged end of stream.
func (m *Codec) EOSCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.QueueCalls {
		if c.Flags.Has(ports.FlagEndOfStream) {
			n++
		}
	}
	return n
}

var _ ports.Codec = (*Codec)(nil)

// CodecList is a mock implementation of ports.CodecList.
type CodecList struct {
	Infos      []ports.CodecInfo
	CreateFunc func(name string) (ports.Codec, error)

	// Recorded calls for verification
	Created []string
}

func (m *CodecList) Codecs() []ports.CodecInfo {
	return m.Infos
}

func (m *CodecList) CreateByName(name string) (ports.Codec, error) {
	m.Created = append(m.Created, name)
	if m.CreateFunc != nil {
		return m.CreateFunc(name)
	}
	return nil, fmt.Errorf("mock: no codec named %s", name)
}

var _ ports.CodecList = (*CodecList)(nil)

// Package sched wires assembled device pipes into the job-scheduling
// layer. It only prepares per-pipe scheduling state; running jobs is the
// scheduler hot path and lives elsewhere.
package sched

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sarchlab/mali/device"
)

// Frame descriptor sizes, in registers, for the two pipe kinds.
const (
	gpFrameRegCount = 6
	ppFrameRegCount = 23
	ppWBRegCount    = 12
)

type pipeState struct {
	name      string
	frameRegs int
	wbRegs    int
	taskSlots int
	usesDLBU  bool
}

// Scheduler implements device.Scheduler.
type Scheduler struct {
	mu    sync.Mutex
	pipes map[*device.Pipe]*pipeState
}

// New creates a Scheduler.
func New() *Scheduler {
	return &Scheduler{
		pipes: make(map[*device.Pipe]*pipeState),
	}
}

// InitPipe prepares scheduling state for one pipe.
func (s *Scheduler) InitPipe(pipe *device.Pipe, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pipes[pipe]; ok {
		return fmt.Errorf("pipe %s already initialized", name)
	}

	s.pipes[pipe] = &pipeState{name: name}

	return nil
}

// FiniPipe drops the scheduling state of one pipe.
func (s *Scheduler) FiniPipe(pipe *device.Pipe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pipes, pipe)
}

// SetupGPPipe configures the graphics pipe: a single task slot with the
// GP frame layout.
func (s *Scheduler) SetupGPPipe(d *device.Device) error {
	state, err := s.stateOf(d.Pipe(device.PipeGP))
	if err != nil {
		return err
	}

	state.frameRegs = gpFrameRegCount
	state.taskSlots = 1

	return nil
}

// TeardownGPPipe undoes SetupGPPipe.
func (s *Scheduler) TeardownGPPipe(d *device.Device) {
	s.teardown(d.Pipe(device.PipeGP))
}

// SetupPPPipe configures the pixel pipe: one task slot per assembled
// processor, the PP frame layout, and DLBU-balanced dispatch when the
// device has the unit.
func (s *Scheduler) SetupPPPipe(d *device.Device) error {
	pipe := d.Pipe(device.PipePP)

	state, err := s.stateOf(pipe)
	if err != nil {
		return err
	}

	state.frameRegs = ppFrameRegCount
	state.wbRegs = ppWBRegCount
	state.taskSlots = pipe.NumProcessors()
	state.usesDLBU = d.IP(device.IPDLBU).Present()

	return nil
}

// TeardownPPPipe undoes SetupPPPipe.
func (s *Scheduler) TeardownPPPipe(d *device.Device) {
	s.teardown(d.Pipe(device.PipePP))
}

// TaskSlots returns the number of task slots configured for a pipe, 0
// before setup.
func (s *Scheduler) TaskSlots(pipe *device.Pipe) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.pipes[pipe]
	if !ok {
		return 0
	}

	return state.taskSlots
}

// UsesDLBU reports whether dispatch on the pipe goes through the DLBU.
func (s *Scheduler) UsesDLBU(pipe *device.Pipe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.pipes[pipe]
	if !ok {
		return false
	}

	return state.usesDLBU
}

func (s *Scheduler) stateOf(pipe *device.Pipe) (*pipeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.pipes[pipe]
	if !ok {
		return nil, errors.New("pipe is not initialized")
	}

	return state, nil
}

func (s *Scheduler) teardown(pipe *device.Pipe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.pipes[pipe]
	if !ok {
		return
	}

	state.taskSlots = 0
	state.usesDLBU = false
}

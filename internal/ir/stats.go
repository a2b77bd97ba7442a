package ir

import "sync/atomic"

// Stats is the generator's running tally of what it has emitted: counters
// incremented as the IR builder walks the AST. They're atomic so a future
// multi-function or multi-file parallel lowering pass can share one Stats
// across goroutines without its own locking, even though today's generator
// runs single-threaded per compilation.
type Stats struct {
	instructions  atomic.Int64
	basicBlocks   atomic.Int64
	functions     atomic.Int64
	bytesEstimate atomic.Int64
	spills        atomic.Int64
	peakRegisters atomic.Int64
}

func (s *Stats) AddInstruction()          { s.instructions.Add(1) }
func (s *Stats) AddBasicBlock()           { s.basicBlocks.Add(1) }
func (s *Stats) AddFunction()             { s.functions.Add(1) }
func (s *Stats) AddBytesEstimate(n int64) { s.bytesEstimate.Add(n) }
func (s *Stats) AddSpill()                { s.spills.Add(1) }

// ObservePressure records a register-pressure sample, keeping the running
// maximum rather than summing.
func (s *Stats) ObservePressure(n int64) {
	for {
		cur := s.peakRegisters.Load()
		if n <= cur || s.peakRegisters.CompareAndSwap(cur, n) {
			return
		}
	}
}

func (s *Stats) Instructions() int64  { return s.instructions.Load() }
func (s *Stats) BasicBlocks() int64   { return s.basicBlocks.Load() }
func (s *Stats) Functions() int64     { return s.functions.Load() }
func (s *Stats) BytesEstimate() int64 { return s.bytesEstimate.Load() }
func (s *Stats) Spills() int64        { return s.spills.Load() }
func (s *Stats) PeakRegisters() int64 { return s.peakRegisters.Load() }

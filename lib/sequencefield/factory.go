package sequencefield

import "fmt"

// Factory assembles a normalized changeset from a raw stream of marks. It
// run-length merges adjacent compatible marks, drops empty no-ops and
// suppresses trailing offsets, so the produced list stays proportional to
// the number of distinct edit regions.
type Factory struct {
	config Config
	list   Changeset
	offset int
}

func NewFactory(config Config) *Factory {
	return &Factory{config: config}
}

// PushOffset appends n untouched populated cells. Zero is a no-op on the
// list; consecutive offsets merge by summation.
func (f *Factory) PushOffset(n int) {
	if n < 0 {
		panic(fmt.Sprintf("negative offset %d", n))
	}
	f.offset += n
}

// Push appends marks, delegating each to PushContent or PushOffset.
func (f *Factory) Push(marks ...Mark) {
	for _, mark := range marks {
		if mark.IsNoOp() && mark.CellID == nil && mark.Changes == nil {
			f.PushOffset(mark.Count)
		} else {
			f.PushContent(mark)
		}
	}
}

// PushContent appends one mark, merging with the preceding mark when the
// merge rule allows it.
func (f *Factory) PushContent(mark Mark) {
	if mark.Count == 0 {
		return
	}
	if mark.Effect == nil {
		mark.Effect = NoOp{}
	}
	if mark.IsTombstone() && f.config.Ordering != CellOrderingTombstone {
		// ordering is resolved from lineage, the placeholder carries nothing
		return
	}
	if f.offset > 0 {
		f.list = append(f.list, NewNoOpMark(f.offset))
		f.offset = 0
	}
	if len(f.list) > 0 {
		if merged, ok := TryMerge(f.list[len(f.list)-1], mark); ok {
			f.list[len(f.list)-1] = merged
			return
		}
	}
	f.list = append(f.list, mark)
}

// List returns the normalized marks built so far. Pending trailing offsets
// are not included; they only materialize when content follows them.
func (f *Factory) List() Changeset {
	return f.list
}

package filter

import (
	"fmt"
)

// Pipeline is an ordered list of filters.
type Pipeline struct {
	filters []Filter
}

// NewPipeline returns a pipeline applying filters in order on encode. Nil
// filters are dropped.
func NewPipeline(filters ...Filter) *Pipeline {
	p := &Pipeline{filters: make([]Filter, 0, len(filters))}
	for _, f := range filters {
		if f != nil {
			p.filters = append(p.filters, f)
		}
	}
	return p
}

// Encode applies every filter in order. Optional filters whose output is not
// smaller than their input are skipped and flagged in the returned mask
// (bit i = filter i skipped).
func (p *Pipeline) Encode(input []byte) ([]byte, uint32, error) {
	data := input
	var mask uint32
	for i, f := range p.filters {
		out, err := f.Encode(data)
		if err != nil {
			return nil, 0, fmt.Errorf("%s encode: %w", Name(f.ID()), err)
		}
		if o, ok := f.(optional); ok && o.Optional() && len(out) >= len(data) {
			mask |= 1 << uint(i)
			continue
		}
		data = out
	}
	return data, mask, nil
}

// Decode applies the filters in reverse order, skipping those flagged in
// filterMask.
func (p *Pipeline) Decode(input []byte, filterMask uint32) ([]byte, error) {
	data := input
	for i := len(p.filters) - 1; i >= 0; i-- {
		if filterMask&(1<<uint(i)) != 0 {
			continue
		}
		var err error
		data, err = p.filters[i].Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s decode: %w", Name(p.filters[i].ID()), err)
		}
	}
	return data, nil
}

// Empty returns true if the pipeline has no filters.
func (p *Pipeline) Empty() bool {
	return len(p.filters) == 0
}

// Len returns the number of filters in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.filters)
}

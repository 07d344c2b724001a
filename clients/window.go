package clients

// Window is an inclusive block range.
type Window struct {
	From uint64
	To   uint64
}

// Len returns the number of blocks in w.
func (w Window) Len() uint64 {
	return w.To - w.From + 1
}

// Windows pages [from, to] into consecutive windows of at most size blocks.
func Windows(from, to, size uint64) ([]Window, error) {
	if from > to {
		return nil, rangeError("invalid block range: from %d is after to %d", from, to)
	}
	if size == 0 {
		return nil, rangeError("window size must be greater than 0")
	}

	var out []Window
	for start := from; ; {
		end := start + size - 1
		if end < start || end > to {
			end = to
		}
		out = append(out, Window{From: start, To: end})
		if end == to {
			return out, nil
		}
		start = end + 1
	}
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joshuapare/heapkit/heap"
)

// traceRunner executes allocation trace scripts against a heap. A trace is
// one verb per line; '#' starts a comment. Named references connect the
// lines:
//
//	alloc <name> <size>
//	zalloc <name> <count> <size>
//	realloc <name> <size>
//	free <name>
//	check
//	dump
//	stats
type traceRunner struct {
	h    *heap.Heap
	refs map[string]heap.Ref
	out  io.Writer
}

func newTraceRunner(h *heap.Heap, out io.Writer) *traceRunner {
	return &traceRunner{
		h:    h,
		refs: make(map[string]heap.Ref),
		out:  out,
	}
}

// Run executes the whole trace, stopping at the first malformed line.
func (r *traceRunner) Run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	lineno := 0
	for sc.Scan() {
		lineno++
		if err := r.exec(sc.Text()); err != nil {
			return fmt.Errorf("trace line %d: %w", lineno, err)
		}
	}
	return sc.Err()
}

func (r *traceRunner) exec(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch verb := fields[0]; verb {
	case "alloc":
		name, sizes, err := splitArgs(fields, 1)
		if err != nil {
			return err
		}
		ref := r.h.Alloc(sizes[0])
		r.refs[name] = ref
		r.report("alloc %s %d -> %#x", name, sizes[0], int(ref))
		return nil

	case "zalloc":
		name, sizes, err := splitArgs(fields, 2)
		if err != nil {
			return err
		}
		ref := r.h.AllocZero(sizes[0], sizes[1])
		r.refs[name] = ref
		r.report("zalloc %s %d x %d -> %#x", name, sizes[0], sizes[1], int(ref))
		return nil

	case "realloc":
		name, sizes, err := splitArgs(fields, 1)
		if err != nil {
			return err
		}
		ref, ok := r.refs[name]
		if !ok {
			return fmt.Errorf("realloc: unknown reference %q", name)
		}
		newRef := r.h.Realloc(ref, sizes[0])
		r.refs[name] = newRef
		r.report("realloc %s %d: %#x -> %#x", name, sizes[0], int(ref), int(newRef))
		return nil

	case "free":
		if len(fields) != 2 {
			return fmt.Errorf("free: want 1 argument, got %d", len(fields)-1)
		}
		name := fields[1]
		ref, ok := r.refs[name]
		if !ok {
			return fmt.Errorf("free: unknown reference %q", name)
		}
		r.h.Free(ref)
		delete(r.refs, name)
		r.report("free %s (%#x)", name, int(ref))
		return nil

	case "check":
		if err := r.h.Check(); err != nil {
			return fmt.Errorf("check: %w", err)
		}
		r.report("check: ok")
		return nil

	case "dump":
		r.h.Dump(r.out)
		return nil

	case "stats":
		st := r.h.Stats()
		r.report("stats: %d block(s), %d allocated, %d free, %d alloc(s), %d free(s), %d grow(s)",
			st.Blocks, st.AllocatedBytes, st.FreeBytes, st.Allocs, st.Frees, st.Grows)
		return nil

	default:
		return fmt.Errorf("unknown verb %q", verb)
	}
}

func (r *traceRunner) report(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(r.out, format+"\n", args...)
	}
}

// splitArgs parses "<verb> <name> <n>..." lines: one name plus count sizes.
func splitArgs(fields []string, count int) (string, []int, error) {
	if len(fields) != 2+count {
		return "", nil, fmt.Errorf("%s: want %d argument(s), got %d", fields[0], 1+count, len(fields)-1)
	}
	name := fields[1]
	sizes := make([]int, count)
	for i := 0; i < count; i++ {
		n, err := strconv.Atoi(fields[2+i])
		if err != nil {
			return "", nil, fmt.Errorf("%s: bad size %q", fields[0], fields[2+i])
		}
		sizes[i] = n
	}
	return name, sizes, nil
}

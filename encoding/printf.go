package encoding

import (
	"strconv"

	"github.com/abstractsig/io-core/mem"
	"github.com/abstractsig/io-core/value"
)

// EncodeValue is called by Printf's %v conversion to render a value
// reference: it opens a fresh text encoding, lets v's value
// implementation write into it, and the produced bytes are spliced into
// the caller's output (spec §4.G "Printf ... adds a %v conversion").
// Nothing in this module assigns the hook; while it is nil, %v renders
// nothing.
var EncodeValue func(heap *mem.Heap, v value.Ref) []byte

// Printf scans format for conversions — %s (string), %d (decimal
// integer), %x (hex integer), %v (value.Ref) and %% — appending the
// rendered output to e, and returns the number of bytes appended
// (io_encoding_printf, patched stb_sprintf's %v conversion). Unlike
// fmt.Sprintf this writes directly into an encoding's buffer rather than
// building a separate string, matching the original's print-to-stream
// contract.
func Printf(e Encoding, heap *mem.Heap, format string, args ...interface{}) int {
	before := e.Length()
	argIdx := 0
	next := func() interface{} {
		if argIdx < len(args) {
			a := args[argIdx]
			argIdx++
			return a
		}
		return nil
	}

	i := 0
	for i < len(format) {
		if format[i] != '%' || i+1 >= len(format) {
			e.AppendByte(format[i])
			i++
			continue
		}
		i++
		switch format[i] {
		case '%':
			e.AppendByte('%')
		case 's':
			if s, ok := next().(string); ok {
				e.AppendBytes([]byte(s))
			}
		case 'd':
			if n, ok := asInt64(next()); ok {
				e.AppendBytes([]byte(strconv.FormatInt(n, 10)))
			}
		case 'x':
			if n, ok := asInt64(next()); ok {
				e.AppendBytes([]byte(strconv.FormatInt(n, 16)))
			}
		case 'v':
			if r, ok := next().(value.Ref); ok && EncodeValue != nil {
				e.AppendBytes(EncodeValue(heap, r))
			}
		default:
			e.AppendByte('%')
			e.AppendByte(format[i])
		}
		i++
	}
	return e.Length() - before
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

package command

import (
	"strconv"
	"strings"
)

type Type int

const (
	SimpleString Type = iota
	Error
	Integer
	BulkString
	Array
)

// Reply is the result of executing a command, shaped like a RESP value so an
// embedding server can encode it directly.
type Reply struct {
	Type   Type
	Str    string
	Int    int64
	Array  []Reply
	IsNull bool
}

var (
	OK       = Reply{Type: SimpleString, Str: "OK"}
	NullBulk = Reply{Type: BulkString, IsNull: true}
)

func Int(n int) Reply { return Reply{Type: Integer, Int: int64(n)} }

func Bool(b bool) Reply {
	if b {
		return Int(1)
	}
	return Int(0)
}

func Bulk(s string) Reply { return Reply{Type: BulkString, Str: s} }

// Float renders f in plain decimal notation.
func Float(f float64) Reply { return Bulk(strconv.FormatFloat(f, 'f', -1, 64)) }

func Strings(items []string) Reply {
	arr := make([]Reply, len(items))
	for i, s := range items {
		arr[i] = Bulk(s)
	}
	return Reply{Type: Array, Array: arr}
}

// Format renders the reply the way redis-cli prints it.
func (r Reply) Format() string {
	var b strings.Builder
	r.format(&b, "")
	return b.String()
}

func (r Reply) format(b *strings.Builder, indent string) {
	switch r.Type {
	case SimpleString:
		b.WriteString(r.Str)
	case Error:
		b.WriteString("(error) ")
		b.WriteString(r.Str)
	case Integer:
		b.WriteString("(integer) ")
		b.WriteString(strconv.FormatInt(r.Int, 10))
	case BulkString:
		if r.IsNull {
			b.WriteString("(nil)")
			return
		}
		if strings.Contains(r.Str, "\n") {
			// multi-line reports print verbatim
			b.WriteString(r.Str)
			return
		}
		b.WriteString(strconv.Quote(r.Str))
	case Array:
		if r.IsNull {
			b.WriteString("(nil)")
			return
		}
		if len(r.Array) == 0 {
			b.WriteString("(empty array)")
			return
		}
		width := len(strconv.Itoa(len(r.Array)))
		for i, item := range r.Array {
			if i > 0 {
				b.WriteString("\n")
				b.WriteString(indent)
			}
			num := strconv.Itoa(i + 1)
			b.WriteString(strings.Repeat(" ", width-len(num)))
			b.WriteString(num)
			b.WriteString(") ")
			item.format(b, indent+strings.Repeat(" ", width+2))
		}
	}
}

package protocols

import "github.com/rajveermalviya/go-wayland/wayland/client"

// request accumulates one wire message: object id, size and opcode, then
// the arguments. Encoding goes through the go-wayland helpers so the byte
// order matches the generated core bindings.
type request struct {
	buf    []byte
	opcode uint32
}

func newRequest(object uint32, opcode uint16) *request {
	r := &request{buf: make([]byte, 8, 64), opcode: uint32(opcode)}
	client.PutUint32(r.buf[0:4], object)
	return r
}

func (r *request) grow(n int) []byte {
	l := len(r.buf)
	r.buf = append(r.buf, make([]byte, n)...)
	return r.buf[l:]
}

func (r *request) uint32(v uint32) {
	client.PutUint32(r.grow(4), v)
}

// string writes a length including the terminating NUL, the bytes, and
// padding up to a 32-bit boundary.
func (r *request) string(s string) {
	n := len(s) + 1
	client.PutString(r.grow(4+client.PaddedLen(n)), s, n)
}

// bytes finalizes the header size field.
func (r *request) bytes() []byte {
	client.PutUint32(r.buf[4:8], uint32(len(r.buf))<<16|r.opcode&0xffff)
	return r.buf
}

type reader []byte

func (r *reader) uint32() uint32 {
	v := client.Uint32(*r)
	*r = (*r)[4:]
	return v
}

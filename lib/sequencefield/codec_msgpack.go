package sequencefield

import (
	"fmt"

	"github.com/ether/seqfield-go/lib/exception"
	"github.com/vmihailenco/msgpack/v5"
)

// msgpackCodec is format version 2: the same logical mark layout as the
// JSON format, packed binary for snapshot storage.
type msgpackCodec struct {
	family *Family
}

func (c *msgpackCodec) Version() int {
	return 2
}

func (c *msgpackCodec) Encode(change Changeset) ([]byte, error) {
	marks, err := c.family.toWire(change)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(marks)
}

func (c *msgpackCodec) Decode(data []byte) (Changeset, error) {
	var marks []wireMark
	if err := msgpack.Unmarshal(data, &marks); err != nil {
		return nil, exception.NewMalformedChangesetError(fmt.Sprintf("format 2: %v", err))
	}
	return c.family.fromWire(marks)
}

package sequencefield

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ether/seqfield-go/lib/exception"
)

// jsonCodec is format version 1: a JSON array of flat mark objects.
type jsonCodec struct {
	family *Family
}

func (c *jsonCodec) Version() int {
	return 1
}

func (c *jsonCodec) Encode(change Changeset) ([]byte, error) {
	marks, err := c.family.toWire(change)
	if err != nil {
		return nil, err
	}
	return json.Marshal(marks)
}

func (c *jsonCodec) Decode(data []byte) (Changeset, error) {
	var marks []wireMark
	var decoder = json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&marks); err != nil {
		return nil, exception.NewMalformedChangesetError(fmt.Sprintf("format 1: %v", err))
	}
	return c.family.fromWire(marks)
}

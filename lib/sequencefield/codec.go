package sequencefield

import (
	"encoding/json"
	"fmt"

	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/ether/seqfield-go/lib/exception"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ChildCodec serializes the node-level changes attached to marks. The
// sequence-field codec never inspects their contents.
type ChildCodec interface {
	EncodeChild(change NodeChangeset) ([]byte, error)
	DecodeChild(data []byte) (NodeChangeset, error)
}

// Codec is one concrete wire format for changesets.
type Codec interface {
	Version() int
	Encode(change Changeset) ([]byte, error)
	Decode(data []byte) (Changeset, error)
}

// Family groups the wire formats a deployment can decode. Version 1 is the
// JSON layout, version 2 the msgpack layout of the same logical shape.
// Callers must persist the version next to the encoded bytes.
type Family struct {
	child    ChildCodec
	validate *validator.Validate
}

func NewFamily(child ChildCodec) *Family {
	return &Family{
		child:    child,
		validate: validator.New(),
	}
}

func (f *Family) SupportedFormats() []int {
	return []int{1, 2}
}

func (f *Family) Resolve(version int) (Codec, error) {
	switch version {
	case 1:
		return &jsonCodec{family: f}, nil
	case 2:
		return &msgpackCodec{family: f}, nil
	}
	return nil, exception.NewUnsupportedFormatError(version)
}

// Wire layout shared by every format version. Marks are flat objects
// discriminated by a type string; the attach and detach halves of a
// transient are nested effect-only objects.

type wireAtom struct {
	Revision string         `json:"revision,omitempty" msgpack:"revision,omitempty"`
	LocalID  atomid.LocalID `json:"localId" msgpack:"localId"`
}

type wireLineage struct {
	Revision string         `json:"revision,omitempty" msgpack:"revision,omitempty"`
	ID       atomid.LocalID `json:"id" msgpack:"id"`
	Count    int            `json:"count" msgpack:"count" validate:"min=1"`
	Offset   int            `json:"offset" msgpack:"offset" validate:"min=0"`
}

type wireIDRange struct {
	ID    atomid.LocalID `json:"id" msgpack:"id"`
	Count int            `json:"count" msgpack:"count" validate:"min=1"`
}

type wireCellID struct {
	Revision      string         `json:"revision,omitempty" msgpack:"revision,omitempty"`
	LocalID       atomid.LocalID `json:"localId" msgpack:"localId"`
	Lineage       []wireLineage  `json:"lineage,omitempty" msgpack:"lineage,omitempty" validate:"dive"`
	AdjacentCells []wireIDRange  `json:"adjacentCells,omitempty" msgpack:"adjacentCells,omitempty" validate:"dive"`
}

type wireEffect struct {
	Type          string      `json:"type" msgpack:"type" validate:"required,oneof=NoOp Insert Remove MoveOut MoveIn Rename AttachAndDetach"`
	ID            *wireAtom   `json:"id,omitempty" msgpack:"id,omitempty"`
	IDOverride    *wireCellID `json:"idOverride,omitempty" msgpack:"idOverride,omitempty"`
	FinalEndpoint *wireAtom   `json:"finalEndpoint,omitempty" msgpack:"finalEndpoint,omitempty"`
	Attach        *wireEffect `json:"attach,omitempty" msgpack:"attach,omitempty"`
	Detach        *wireEffect `json:"detach,omitempty" msgpack:"detach,omitempty"`
}

type wireMark struct {
	wireEffect
	Count   int             `json:"count" msgpack:"count" validate:"required,min=1"`
	CellID  *wireCellID     `json:"cellId,omitempty" msgpack:"cellId,omitempty"`
	Changes json.RawMessage `json:"changes,omitempty" msgpack:"changes,omitempty"`
}

func (f *Family) toWire(change Changeset) ([]wireMark, error) {
	var marks = make([]wireMark, 0, len(change))
	for _, mark := range change {
		var wire = wireMark{
			Count:      mark.Count,
			CellID:     cellIDToWire(mark.CellID),
			wireEffect: effectToWire(mark.Effect),
		}
		if mark.Changes != nil {
			if f.child == nil {
				return nil, fmt.Errorf("changeset carries node changes but no child codec is configured")
			}
			encoded, err := f.child.EncodeChild(mark.Changes)
			if err != nil {
				return nil, fmt.Errorf("encoding node changes: %w", err)
			}
			wire.Changes = encoded
		}
		marks = append(marks, wire)
	}
	return marks, nil
}

func (f *Family) fromWire(marks []wireMark) (Changeset, error) {
	var change = make(Changeset, 0, len(marks))
	for i, wire := range marks {
		if err := f.validate.Struct(wire); err != nil {
			return nil, exception.NewMalformedChangesetError(fmt.Sprintf("mark %d: %v", i, err))
		}
		cellID, err := cellIDFromWire(wire.CellID)
		if err != nil {
			return nil, exception.NewMalformedChangesetError(fmt.Sprintf("mark %d: %v", i, err))
		}
		effect, err := effectFromWire(wire.wireEffect)
		if err != nil {
			return nil, exception.NewMalformedChangesetError(fmt.Sprintf("mark %d: %v", i, err))
		}
		var mark = Mark{Count: wire.Count, CellID: cellID, Effect: effect}
		if len(wire.Changes) > 0 {
			if f.child == nil {
				return nil, exception.NewMalformedChangesetError(fmt.Sprintf("mark %d carries node changes but no child codec is configured", i))
			}
			changes, err := f.child.DecodeChild(wire.Changes)
			if err != nil {
				return nil, exception.NewMalformedChangesetError(fmt.Sprintf("mark %d: decoding node changes: %v", i, err))
			}
			mark.Changes = changes
		}
		change = append(change, mark)
	}
	return change, nil
}

func effectToWire(effect MarkEffect) wireEffect {
	switch e := effect.(type) {
	case NoOp:
		return wireEffect{Type: "NoOp"}
	case Insert:
		return wireEffect{Type: "Insert", ID: atomToWire(e.ID)}
	case Remove:
		return wireEffect{Type: "Remove", ID: atomToWire(e.ID), IDOverride: cellIDToWire(e.IDOverride)}
	case MoveOut:
		return wireEffect{
			Type:          "MoveOut",
			ID:            atomToWire(e.ID),
			IDOverride:    cellIDToWire(e.IDOverride),
			FinalEndpoint: atomPtrToWire(e.FinalEndpoint),
		}
	case MoveIn:
		return wireEffect{Type: "MoveIn", ID: atomToWire(e.ID), FinalEndpoint: atomPtrToWire(e.FinalEndpoint)}
	case Rename:
		return wireEffect{Type: "Rename", IDOverride: cellIDToWire(&e.IDOverride)}
	case AttachAndDetach:
		var attach = effectToWire(e.Attach)
		var detach = effectToWire(e.Detach)
		return wireEffect{Type: "AttachAndDetach", Attach: &attach, Detach: &detach}
	default:
		panic(fmt.Sprintf("cannot encode effect %T", effect))
	}
}

func effectFromWire(wire wireEffect) (MarkEffect, error) {
	switch wire.Type {
	case "NoOp":
		return NoOp{}, nil
	case "Insert":
		id, err := atomFromWireRequired(wire.ID, wire.Type)
		if err != nil {
			return nil, err
		}
		return Insert{ID: id}, nil
	case "Remove":
		id, err := atomFromWireRequired(wire.ID, wire.Type)
		if err != nil {
			return nil, err
		}
		override, err := cellIDFromWire(wire.IDOverride)
		if err != nil {
			return nil, err
		}
		return Remove{ID: id, IDOverride: override}, nil
	case "MoveOut":
		id, err := atomFromWireRequired(wire.ID, wire.Type)
		if err != nil {
			return nil, err
		}
		override, err := cellIDFromWire(wire.IDOverride)
		if err != nil {
			return nil, err
		}
		endpoint, err := atomPtrFromWire(wire.FinalEndpoint)
		if err != nil {
			return nil, err
		}
		return MoveOut{ID: id, IDOverride: override, FinalEndpoint: endpoint}, nil
	case "MoveIn":
		id, err := atomFromWireRequired(wire.ID, wire.Type)
		if err != nil {
			return nil, err
		}
		endpoint, err := atomPtrFromWire(wire.FinalEndpoint)
		if err != nil {
			return nil, err
		}
		return MoveIn{ID: id, FinalEndpoint: endpoint}, nil
	case "Rename":
		override, err := cellIDFromWire(wire.IDOverride)
		if err != nil {
			return nil, err
		}
		if override == nil {
			return nil, fmt.Errorf("Rename effect missing idOverride")
		}
		return Rename{IDOverride: *override}, nil
	case "AttachAndDetach":
		if wire.Attach == nil || wire.Detach == nil {
			return nil, fmt.Errorf("AttachAndDetach effect missing attach or detach half")
		}
		attach, err := effectFromWire(*wire.Attach)
		if err != nil {
			return nil, err
		}
		detach, err := effectFromWire(*wire.Detach)
		if err != nil {
			return nil, err
		}
		if !IsAttach(attach) || !IsDetach(detach) {
			return nil, fmt.Errorf("AttachAndDetach halves have wrong polarity: %T/%T", attach, detach)
		}
		return AttachAndDetach{Attach: attach, Detach: detach}, nil
	}
	return nil, fmt.Errorf("unknown effect type %q", wire.Type)
}

func atomToWire(id atomid.ChangeAtomID) *wireAtom {
	var wire = wireAtom{LocalID: id.LocalID}
	if id.Revision != nil {
		wire.Revision = id.Revision.String()
	}
	return &wire
}

func atomPtrToWire(id *atomid.ChangeAtomID) *wireAtom {
	if id == nil {
		return nil
	}
	return atomToWire(*id)
}

func atomFromWire(wire wireAtom) (atomid.ChangeAtomID, error) {
	var id = atomid.ChangeAtomID{LocalID: wire.LocalID}
	if wire.Revision != "" {
		parsed, err := uuid.Parse(wire.Revision)
		if err != nil {
			return atomid.ChangeAtomID{}, fmt.Errorf("invalid revision tag %q: %w", wire.Revision, err)
		}
		id.Revision = &parsed
	}
	return id, nil
}

func atomFromWireRequired(wire *wireAtom, effectType string) (atomid.ChangeAtomID, error) {
	if wire == nil {
		return atomid.ChangeAtomID{}, fmt.Errorf("%s effect missing id", effectType)
	}
	return atomFromWire(*wire)
}

func atomPtrFromWire(wire *wireAtom) (*atomid.ChangeAtomID, error) {
	if wire == nil {
		return nil, nil
	}
	id, err := atomFromWire(*wire)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func cellIDToWire(id *atomid.CellID) *wireCellID {
	if id == nil {
		return nil
	}
	var wire = wireCellID{LocalID: id.LocalID}
	if id.Revision != nil {
		wire.Revision = id.Revision.String()
	}
	for _, event := range id.Lineage {
		var wireEvent = wireLineage{ID: event.ID, Count: event.Count, Offset: event.Offset}
		if event.Revision != nil {
			wireEvent.Revision = event.Revision.String()
		}
		wire.Lineage = append(wire.Lineage, wireEvent)
	}
	for _, adjacent := range id.AdjacentCells {
		wire.AdjacentCells = append(wire.AdjacentCells, wireIDRange{ID: adjacent.ID, Count: adjacent.Count})
	}
	return &wire
}

func cellIDFromWire(wire *wireCellID) (*atomid.CellID, error) {
	if wire == nil {
		return nil, nil
	}
	var id = atomid.CellID{ChangeAtomID: atomid.ChangeAtomID{LocalID: wire.LocalID}}
	if wire.Revision != "" {
		parsed, err := uuid.Parse(wire.Revision)
		if err != nil {
			return nil, fmt.Errorf("invalid revision tag %q: %w", wire.Revision, err)
		}
		id.Revision = &parsed
	}
	for _, wireEvent := range wire.Lineage {
		var event = atomid.LineageEvent{ID: wireEvent.ID, Count: wireEvent.Count, Offset: wireEvent.Offset}
		if wireEvent.Revision != "" {
			parsed, err := uuid.Parse(wireEvent.Revision)
			if err != nil {
				return nil, fmt.Errorf("invalid lineage revision tag %q: %w", wireEvent.Revision, err)
			}
			event.Revision = &parsed
		}
		id.Lineage = append(id.Lineage, event)
	}
	for _, adjacent := range wire.AdjacentCells {
		id.AdjacentCells = append(id.AdjacentCells, atomid.IDRange{ID: adjacent.ID, Count: adjacent.Count})
	}
	return &id, nil
}

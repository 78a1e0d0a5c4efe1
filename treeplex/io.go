package treeplex

import (
	"io"
	"io/ioutil"
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
)

// Wire field numbers. The layout is a fixed, version-free schema:
//
//	Infoset  { 1: uint32 parent_seq; 2: uint32 start_seq; 3: uint32 end_seq }
//	Treeplex { 1: repeated Infoset infosets; 2: uint32 num_sequences }
//	Vector   { 1: packed fixed64 entries }
const (
	infosetParentField protowire.Number = 1
	infosetStartField  protowire.Number = 2
	infosetEndField    protowire.Number = 3

	treeplexInfosetsField     protowire.Number = 1
	treeplexNumSequencesField protowire.Number = 2

	vectorEntriesField protowire.Number = 1
)

// MarshalBinary implements encoding.BinaryMarshaler.
// The player is not part of the message; it is implied by the
// position of the treeplex within its game.
func (tp *Treeplex) MarshalBinary() ([]byte, error) {
	var buf []byte
	for _, is := range tp.infosets {
		var msg []byte
		msg = appendUint32(msg, infosetParentField, is.ParentSequence)
		msg = appendUint32(msg, infosetStartField, is.StartSequence)
		msg = appendUint32(msg, infosetEndField, is.EndSequence)

		buf = protowire.AppendTag(buf, treeplexInfosetsField, protowire.BytesType)
		buf = protowire.AppendBytes(buf, msg)
	}

	buf = appendUint32(buf, treeplexNumSequencesField, tp.numSequences)
	return buf, nil
}

// UnmarshalTreeplex decodes a treeplex message for the given player and
// checks its structural invariants.
func UnmarshalTreeplex(player Player, buf []byte) (tp *Treeplex, err error) {
	var infosets []Infoset
	var numSequences uint64
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "treeplex tag")
		}
		buf = buf[n:]

		switch {
		case num == treeplexInfosetsField && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(buf)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "treeplex infoset")
			}
			buf = buf[n:]

			is, err := unmarshalInfoset(msg)
			if err != nil {
				return nil, errors.Wrapf(err, "infoset %d", len(infosets))
			}
			infosets = append(infosets, is)
		case num == treeplexNumSequencesField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(buf)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "treeplex num_sequences")
			}
			buf = buf[n:]
			numSequences = v
		default:
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return nil, errors.Wrapf(protowire.ParseError(n), "treeplex field %d", num)
			}
			buf = buf[n:]
		}
	}

	if numSequences == 0 || numSequences > math.MaxUint32 {
		return nil, errors.Errorf("treeplex has invalid num_sequences %d", numSequences)
	}

	defer assert.Recover(&err)
	tp = New(player, int(numSequences), infosets)
	tp.Validate()
	return tp, nil
}

func unmarshalInfoset(buf []byte) (Infoset, error) {
	var fields [4]int
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return Infoset{}, protowire.ParseError(n)
		}
		buf = buf[n:]

		if typ != protowire.VarintType || num < infosetParentField || num > infosetEndField {
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return Infoset{}, protowire.ParseError(n)
			}
			buf = buf[n:]
			continue
		}

		v, n := protowire.ConsumeVarint(buf)
		if n < 0 {
			return Infoset{}, protowire.ParseError(n)
		}
		if v > math.MaxUint32 {
			return Infoset{}, errors.Errorf("field %d value %d overflows uint32", num, v)
		}
		buf = buf[n:]
		fields[num] = int(v)
	}

	return Infoset{
		ParentSequence: fields[infosetParentField],
		StartSequence:  fields[infosetStartField],
		EndSequence:    fields[infosetEndField],
	}, nil
}

// EncodeVector serializes the entries of v as a Vector message.
func EncodeVector(v Vector) []byte {
	packed := make([]byte, 0, 8*len(v.entries))
	for _, x := range v.entries {
		packed = protowire.AppendFixed64(packed, math.Float64bits(x))
	}

	var buf []byte
	buf = protowire.AppendTag(buf, vectorEntriesField, protowire.BytesType)
	buf = protowire.AppendBytes(buf, packed)
	return buf
}

// DecodeVector parses a Vector message and binds it to tp. It fails if the
// number of entries does not match the number of sequences in tp.
func DecodeVector(buf []byte, tp *Treeplex) (Vector, error) {
	entries := make([]float64, 0, tp.NumSequences())
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return Vector{}, errors.Wrap(protowire.ParseError(n), "vector tag")
		}
		buf = buf[n:]

		switch {
		case num == vectorEntriesField && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(buf)
			if n < 0 {
				return Vector{}, errors.Wrap(protowire.ParseError(n), "vector entries")
			}
			buf = buf[n:]

			for len(packed) > 0 {
				bits, m := protowire.ConsumeFixed64(packed)
				if m < 0 {
					return Vector{}, errors.Wrap(protowire.ParseError(m), "vector entry")
				}
				packed = packed[m:]
				entries = append(entries, math.Float64frombits(bits))
			}
		case num == vectorEntriesField && typ == protowire.Fixed64Type:
			bits, n := protowire.ConsumeFixed64(buf)
			if n < 0 {
				return Vector{}, errors.Wrap(protowire.ParseError(n), "vector entry")
			}
			buf = buf[n:]
			entries = append(entries, math.Float64frombits(bits))
		default:
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return Vector{}, errors.Wrapf(protowire.ParseError(n), "vector field %d", num)
			}
			buf = buf[n:]
		}
	}

	if len(entries) != tp.NumSequences() {
		return Vector{}, errors.Errorf("vector has %d entries but %v has %d sequences",
			len(entries), tp.Player(), tp.NumSequences())
	}

	return Vector{treeplex: tp, entries: entries}, nil
}

// LoadVector reads a Vector message from r and binds it to tp.
func LoadVector(r io.Reader, tp *Treeplex) (Vector, error) {
	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return Vector{}, errors.Wrap(err, "reading vector")
	}

	return DecodeVector(buf, tp)
}

// MarshalTo writes v to w as a Vector message.
func (v Vector) MarshalTo(w io.Writer) error {
	_, err := w.Write(EncodeVector(v))
	return errors.Wrap(err, "writing vector")
}

func appendUint32(buf []byte, num protowire.Number, v int) []byte {
	assert.That(v >= 0 && uint64(v) <= math.MaxUint32, "field %d value %d does not fit in uint32", num, v)
	buf = protowire.AppendTag(buf, num, protowire.VarintType)
	return protowire.AppendVarint(buf, uint64(v))
}

package game

import (
	"io"
	"io/ioutil"
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// Wire layout:
//
//	Entry        { 1: uint32 seq_pl1; 2: uint32 seq_pl2; 3: fixed64 chance;
//	               4: fixed64 payoff_pl1; 5: fixed64 payoff_pl2 }
//	PayoffMatrix { 1: repeated Entry entries }
//	Game         { 1: Treeplex pl1; 2: Treeplex pl2; 3: PayoffMatrix;
//	               4: packed uint32 subgames_pl1; 5: packed uint32 subgames_pl2 }
const (
	entrySeqPl1Field    protowire.Number = 1
	entrySeqPl2Field    protowire.Number = 2
	entryChanceField    protowire.Number = 3
	entryPayoffPl1Field protowire.Number = 4
	entryPayoffPl2Field protowire.Number = 5

	payoffMatrixEntriesField protowire.Number = 1

	gameTreeplexPl1Field  protowire.Number = 1
	gameTreeplexPl2Field  protowire.Number = 2
	gamePayoffMatrixField protowire.Number = 3
	gameSubgamesPl1Field  protowire.Number = 4
	gameSubgamesPl2Field  protowire.Number = 5
)

// MarshalBinary implements encoding.BinaryMarshaler.
func (g *ExtensiveFormGame) MarshalBinary() ([]byte, error) {
	var buf []byte
	for i, field := range []protowire.Number{gameTreeplexPl1Field, gameTreeplexPl2Field} {
		tpBuf, err := g.treeplexes[i].MarshalBinary()
		if err != nil {
			return nil, errors.Wrapf(err, "marshal %v treeplex", Player(i))
		}

		buf = protowire.AppendTag(buf, field, protowire.BytesType)
		buf = protowire.AppendBytes(buf, tpBuf)
	}

	buf = protowire.AppendTag(buf, gamePayoffMatrixField, protowire.BytesType)
	buf = protowire.AppendBytes(buf, marshalPayoffMatrix(g.payoffs))

	for i, field := range []protowire.Number{gameSubgamesPl1Field, gameSubgamesPl2Field} {
		var packed []byte
		for _, s := range g.subgames[i] {
			packed = protowire.AppendVarint(packed, s.toWire())
		}

		buf = protowire.AppendTag(buf, field, protowire.BytesType)
		buf = protowire.AppendBytes(buf, packed)
	}

	return buf, nil
}

func marshalPayoffMatrix(pm *PayoffMatrix) []byte {
	var buf []byte
	for _, e := range pm.entries {
		var msg []byte
		msg = protowire.AppendTag(msg, entrySeqPl1Field, protowire.VarintType)
		msg = protowire.AppendVarint(msg, uint64(e.SeqPl1))
		msg = protowire.AppendTag(msg, entrySeqPl2Field, protowire.VarintType)
		msg = protowire.AppendVarint(msg, uint64(e.SeqPl2))
		msg = appendDouble(msg, entryChanceField, e.ChanceFactor)
		msg = appendDouble(msg, entryPayoffPl1Field, e.PayoffPl1)
		msg = appendDouble(msg, entryPayoffPl2Field, e.PayoffPl2)

		buf = protowire.AppendTag(buf, payoffMatrixEntriesField, protowire.BytesType)
		buf = protowire.AppendBytes(buf, msg)
	}

	return buf
}

func appendDouble(buf []byte, num protowire.Number, x float64) []byte {
	buf = protowire.AppendTag(buf, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(buf, math.Float64bits(x))
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The decoded game
// is validated; structural problems are returned as errors.
func (g *ExtensiveFormGame) UnmarshalBinary(buf []byte) (err error) {
	var tpBufs [2][]byte
	var haveTreeplex [2]bool
	var entries []Entry
	var subgames [2][]SubgameID

	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "game tag")
		}
		buf = buf[n:]

		switch {
		case (num == gameTreeplexPl1Field || num == gameTreeplexPl2Field) && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(buf)
			if n < 0 {
				return errors.Wrap(protowire.ParseError(n), "game treeplex")
			}
			buf = buf[n:]

			p := Player(num - gameTreeplexPl1Field)
			tpBufs[p] = msg
			haveTreeplex[p] = true
		case num == gamePayoffMatrixField && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(buf)
			if n < 0 {
				return errors.Wrap(protowire.ParseError(n), "game payoff matrix")
			}
			buf = buf[n:]

			decoded, err := unmarshalPayoffMatrix(msg)
			if err != nil {
				return errors.Wrap(err, "payoff matrix")
			}
			entries = append(entries, decoded...)
		case num == gameSubgamesPl1Field || num == gameSubgamesPl2Field:
			p := Player(num - gameSubgamesPl1Field)
			values, n, err := consumeUint32s(buf, typ)
			if err != nil {
				return errors.Wrapf(err, "%v subgames", p)
			}
			buf = buf[n:]

			for _, v := range values {
				subgames[p] = append(subgames[p], subgameFromWire(v))
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return errors.Wrapf(protowire.ParseError(n), "game field %d", num)
			}
			buf = buf[n:]
		}
	}

	var tps [2]*treeplex.Treeplex
	for _, p := range []Player{Player1, Player2} {
		if !haveTreeplex[p] {
			return errors.Errorf("game is missing the %v treeplex", p)
		}

		tp, err := treeplex.UnmarshalTreeplex(p, tpBufs[p])
		if err != nil {
			return errors.Wrapf(err, "%v treeplex", p)
		}
		tps[p] = tp
	}

	defer assert.Recover(&err)
	decoded := New(tps[Player1], tps[Player2], NewPayoffMatrix(entries), subgames[Player1], subgames[Player2])
	decoded.Validate()
	*g = *decoded
	return nil
}

func unmarshalPayoffMatrix(buf []byte) ([]Entry, error) {
	var entries []Entry
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		buf = buf[n:]

		if num != payoffMatrixEntriesField || typ != protowire.BytesType {
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			buf = buf[n:]
			continue
		}

		msg, n := protowire.ConsumeBytes(buf)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		buf = buf[n:]

		e, err := unmarshalEntry(msg)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", len(entries))
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func unmarshalEntry(buf []byte) (Entry, error) {
	var e Entry
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return Entry{}, protowire.ParseError(n)
		}
		buf = buf[n:]

		switch {
		case (num == entrySeqPl1Field || num == entrySeqPl2Field) && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(buf)
			if n < 0 {
				return Entry{}, protowire.ParseError(n)
			}
			if v > math.MaxUint32 {
				return Entry{}, errors.Errorf("field %d value %d overflows uint32", num, v)
			}
			buf = buf[n:]

			if num == entrySeqPl1Field {
				e.SeqPl1 = int(v)
			} else {
				e.SeqPl2 = int(v)
			}
		case num >= entryChanceField && num <= entryPayoffPl2Field && typ == protowire.Fixed64Type:
			bits, n := protowire.ConsumeFixed64(buf)
			if n < 0 {
				return Entry{}, protowire.ParseError(n)
			}
			buf = buf[n:]

			x := math.Float64frombits(bits)
			switch num {
			case entryChanceField:
				e.ChanceFactor = x
			case entryPayoffPl1Field:
				e.PayoffPl1 = x
			default:
				e.PayoffPl2 = x
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return Entry{}, protowire.ParseError(n)
			}
			buf = buf[n:]
		}
	}

	return e, nil
}

// consumeUint32s reads either a packed list or a single unpacked varint.
func consumeUint32s(buf []byte, typ protowire.Type) ([]uint64, int, error) {
	switch typ {
	case protowire.VarintType:
		v, n := protowire.ConsumeVarint(buf)
		if n < 0 {
			return nil, 0, protowire.ParseError(n)
		}
		if v > math.MaxUint32 {
			return nil, 0, errors.Errorf("value %d overflows uint32", v)
		}
		return []uint64{v}, n, nil
	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(buf)
		if n < 0 {
			return nil, 0, protowire.ParseError(n)
		}

		var values []uint64
		for len(packed) > 0 {
			v, m := protowire.ConsumeVarint(packed)
			if m < 0 {
				return nil, 0, protowire.ParseError(m)
			}
			if v > math.MaxUint32 {
				return nil, 0, errors.Errorf("value %d overflows uint32", v)
			}
			packed = packed[m:]
			values = append(values, v)
		}
		return values, n, nil
	}

	return nil, 0, errors.Errorf("unexpected wire type %v", typ)
}

// UnmarshalGame decodes a Game message.
func UnmarshalGame(buf []byte) (*ExtensiveFormGame, error) {
	g := &ExtensiveFormGame{}
	if err := g.UnmarshalBinary(buf); err != nil {
		return nil, err
	}

	return g, nil
}

// LoadGame reads a Game message from r.
func LoadGame(r io.Reader) (*ExtensiveFormGame, error) {
	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading game")
	}

	return UnmarshalGame(buf)
}

// MarshalTo writes g to w as a Game message.
func (g *ExtensiveFormGame) MarshalTo(w io.Writer) error {
	buf, err := g.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = w.Write(buf)
	return errors.Wrap(err, "writing game")
}

package settle

import (
	"bytes"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/google/uuid"

	"github.com/bitfsorg/libshares-go/market"
)

// MemoFlag prefixes every trade memo: "shrs" in ASCII.
var MemoFlag = []byte{0x73, 0x68, 0x72, 0x73}

// BuildTradeMemo creates an OP_FALSE OP_RETURN script carrying the event
// kind and id.
//
// Layout:
//
//	pushdata[0]: MemoFlag (4 bytes, "shrs")
//	pushdata[1]: kind     ("buy_shares" or "sell_shares")
//	pushdata[2]: event id (16 bytes)
func BuildTradeMemo(ev *market.TradeEvent) (*script.Script, error) {
	if ev == nil {
		return nil, fmt.Errorf("%w: nil event", ErrScriptBuild)
	}
	s := &script.Script{}
	*s = append(*s, script.OpFALSE, script.OpRETURN)
	for _, push := range [][]byte{MemoFlag, []byte(ev.Kind), ev.ID[:]} {
		if err := s.AppendPushData(push); err != nil {
			return nil, fmt.Errorf("%w: OP_RETURN push data: %w", ErrScriptBuild, err)
		}
	}
	return s, nil
}

// ParseTradeMemo extracts the kind and id from a script built by
// BuildTradeMemo.
func ParseTradeMemo(s *script.Script) (market.TradeKind, uuid.UUID, error) {
	if s == nil {
		return "", uuid.Nil, ErrNotTradeMemo
	}
	b := []byte(*s)
	if len(b) < 2 || b[0] != script.OpFALSE || b[1] != script.OpRETURN {
		return "", uuid.Nil, ErrNotTradeMemo
	}
	pushes, err := readPushes(b[2:])
	if err != nil {
		return "", uuid.Nil, err
	}
	if len(pushes) != 3 || !bytes.Equal(pushes[0], MemoFlag) {
		return "", uuid.Nil, fmt.Errorf("%w: missing flag", ErrNotTradeMemo)
	}
	kind := market.TradeKind(pushes[1])
	if kind != market.KindBuy && kind != market.KindSell {
		return "", uuid.Nil, fmt.Errorf("%w: kind %q", ErrNotTradeMemo, kind)
	}
	id, err := uuid.FromBytes(pushes[2])
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("%w: id: %w", ErrNotTradeMemo, err)
	}
	return kind, id, nil
}

// readPushes splits OP_RETURN data into its pushes. Memo pushes are short,
// so only direct pushes and OP_PUSHDATA1 are accepted.
func readPushes(b []byte) ([][]byte, error) {
	var pushes [][]byte
	for len(b) > 0 {
		op := b[0]
		b = b[1:]
		var n int
		switch {
		case op >= script.OpDATA1 && op <= script.OpDATA75:
			n = int(op)
		case op == script.OpPUSHDATA1:
			if len(b) < 1 {
				return nil, fmt.Errorf("%w: truncated OP_PUSHDATA1", ErrNotTradeMemo)
			}
			n = int(b[0])
			b = b[1:]
		default:
			return nil, fmt.Errorf("%w: unexpected opcode 0x%02x", ErrNotTradeMemo, op)
		}
		if len(b) < n {
			return nil, fmt.Errorf("%w: truncated push", ErrNotTradeMemo)
		}
		pushes = append(pushes, b[:n])
		b = b[n:]
	}
	return pushes, nil
}

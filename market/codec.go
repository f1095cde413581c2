package market

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

const paramsKey = "params"

// encMode writes maps with core deterministic key order so that equal
// records always encode to equal bytes.
var encMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Sort: cbor.SortCoreDeterministic}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("market: cbor enc mode: %v", err))
	}
	return em
}()

func encodeParams(p *Params) ([]byte, error) {
	data, err := encMode.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("market: encode params: %w", err)
	}
	return data, nil
}

func decodeParams(data []byte) (*Params, error) {
	var p Params
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("market: decode params: %w", err)
	}
	return &p, nil
}

func encodeEvent(ev *TradeEvent) ([]byte, error) {
	data, err := encMode.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("market: encode event: %w", err)
	}
	return data, nil
}

// DecodeEvent decodes a journal entry written by the engine.
func DecodeEvent(data []byte) (*TradeEvent, error) {
	var ev TradeEvent
	if err := cbor.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("market: decode event: %w", err)
	}
	return &ev, nil
}

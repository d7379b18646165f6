// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

const (
	EventAssetListed   = "AssetListed"
	EventAssetReceived = "AssetReceived"
	EventBid           = "Bid"
	EventBidReturn     = "BidReturn"
	EventSale          = "Sale"
	EventWithdraw      = "Withdraw"
)

const auctionEventsJSON = `[
	{"type":"event","name":"AssetListed","anonymous":false,"inputs":[
		{"name":"seller","type":"address","indexed":true},
		{"name":"assetId","type":"uint256","indexed":true},
		{"name":"minPrice","type":"uint256","indexed":false},
		{"name":"paymentToken","type":"address","indexed":false}]},
	{"type":"event","name":"AssetReceived","anonymous":false,"inputs":[
		{"name":"from","type":"address","indexed":true},
		{"name":"assetId","type":"uint256","indexed":true},
		{"name":"registry","type":"address","indexed":false}]},
	{"type":"event","name":"Bid","anonymous":false,"inputs":[
		{"name":"bidder","type":"address","indexed":true},
		{"name":"assetId","type":"uint256","indexed":true},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"paymentToken","type":"address","indexed":false}]},
	{"type":"event","name":"BidReturn","anonymous":false,"inputs":[
		{"name":"bidder","type":"address","indexed":true},
		{"name":"assetId","type":"uint256","indexed":true},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"paymentToken","type":"address","indexed":false}]},
	{"type":"event","name":"Sale","anonymous":false,"inputs":[
		{"name":"assetId","type":"uint256","indexed":true},
		{"name":"buyer","type":"address","indexed":true},
		{"name":"price","type":"uint256","indexed":false},
		{"name":"paymentToken","type":"address","indexed":false}]},
	{"type":"event","name":"Withdraw","anonymous":false,"inputs":[
		{"name":"assetId","type":"uint256","indexed":true},
		{"name":"seller","type":"address","indexed":true}]}
]`

// EventsABI describes the logs written by the engine.
var EventsABI abi.ABI

func init() {
	var err error
	if EventsABI, err = abi.JSON(strings.NewReader(auctionEventsJSON)); err != nil {
		panic(err)
	}
}

// EventID returns topic0 of the named event.
func EventID(name string) meter.Bytes32 {
	return meter.Bytes32(EventsABI.Events[name].ID)
}

// Event is the decoded form of an engine log. Actor is the seller, bidder,
// buyer or sender depending on Name; Token is the payment token, or the asset
// registry for AssetReceived.
type Event struct {
	Name    string
	AssetID uint64
	Actor   meter.Address
	Amount  *big.Int
	Token   meter.Address
}

func (ev *Event) String() string {
	return fmt.Sprintf("%v(asset=%v, actor=%v, amount=%v, token=%v)", ev.Name, ev.AssetID, ev.Actor, ev.Amount, ev.Token)
}

func (ev *Event) value(arg string) (interface{}, error) {
	switch arg {
	case "seller", "bidder", "buyer", "from":
		return ev.Actor.Common(), nil
	case "assetId":
		return new(big.Int).SetUint64(ev.AssetID), nil
	case "minPrice", "amount", "price":
		if ev.Amount == nil {
			return new(big.Int), nil
		}
		return ev.Amount, nil
	case "paymentToken", "registry":
		return ev.Token.Common(), nil
	}
	return nil, fmt.Errorf("unknown event argument %v", arg)
}

func (ev *Event) setValue(arg string, v interface{}) error {
	switch val := v.(type) {
	case common.Address:
		switch arg {
		case "seller", "bidder", "buyer", "from":
			ev.Actor = meter.Address(val)
		case "paymentToken", "registry":
			ev.Token = meter.Address(val)
		default:
			return fmt.Errorf("unexpected address argument %v", arg)
		}
	case *big.Int:
		switch arg {
		case "assetId":
			if !val.IsUint64() {
				return fmt.Errorf("asset id overflow: %v", val)
			}
			ev.AssetID = val.Uint64()
		default:
			ev.Amount = val
		}
	default:
		return fmt.Errorf("unexpected type %T for argument %v", v, arg)
	}
	return nil
}

// Encode converts the event into an ABI log emitted by contract.
func (ev *Event) Encode(contract meter.Address) (*tx.Event, error) {
	def, ok := EventsABI.Events[ev.Name]
	if !ok {
		return nil, fmt.Errorf("unknown event %v", ev.Name)
	}
	topics := []meter.Bytes32{meter.Bytes32(def.ID)}
	var data []interface{}
	for _, input := range def.Inputs {
		v, err := ev.value(input.Name)
		if err != nil {
			return nil, err
		}
		if !input.Indexed {
			data = append(data, v)
			continue
		}
		switch val := v.(type) {
		case common.Address:
			topics = append(topics, meter.BytesToBytes32(val.Bytes()))
		case *big.Int:
			topics = append(topics, meter.BytesToBytes32(val.Bytes()))
		}
	}
	packed, err := def.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return nil, err
	}
	return &tx.Event{Address: contract, Topics: topics, Data: packed}, nil
}

// DecodeEvent parses an engine log.
func DecodeEvent(raw *tx.Event) (*Event, error) {
	if len(raw.Topics) == 0 {
		return nil, fmt.Errorf("anonymous event")
	}
	def, err := EventsABI.EventByID(common.Hash(raw.Topics[0]))
	if err != nil {
		return nil, err
	}
	ev := &Event{Name: def.Name}

	topics := raw.Topics[1:]
	nonIndexed := def.Inputs.NonIndexed()
	values, err := nonIndexed.Unpack(raw.Data)
	if err != nil {
		return nil, err
	}
	for _, input := range def.Inputs {
		if !input.Indexed {
			continue
		}
		if len(topics) == 0 {
			return nil, fmt.Errorf("missing topic for %v", input.Name)
		}
		topic := topics[0]
		topics = topics[1:]
		var v interface{}
		if input.Type.T == abi.AddressTy {
			v = common.BytesToAddress(topic[12:])
		} else {
			v = new(big.Int).SetBytes(topic[:])
		}
		if err := ev.setValue(input.Name, v); err != nil {
			return nil, err
		}
	}
	for i, input := range nonIndexed {
		if err := ev.setValue(input.Name, values[i]); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

// DecodeEvents parses every engine log in evs.
func DecodeEvents(evs tx.Events) ([]*Event, error) {
	decoded := make([]*Event, 0, len(evs))
	for _, raw := range evs {
		ev, err := DecodeEvent(raw)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, ev)
	}
	return decoded, nil
}

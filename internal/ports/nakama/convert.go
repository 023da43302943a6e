package nakama

import (
	"encoding/json"
	"fmt"

	"blackjack/internal/app"
	"blackjack/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// eventOpCodes maps table events to the op codes clients listen on.
var eventOpCodes = map[app.EventKind]int64{
	app.EventPhaseChanged:      OpPhaseChanged,
	app.EventBetPlaced:         OpBetPlaced,
	app.EventCardsDealt:        OpCardsDealt,
	app.EventInsuranceOffered:  OpInsuranceOffered,
	app.EventInsuranceResolved: OpInsuranceResolved,
	app.EventCardDrawn:         OpCardDrawn,
	app.EventHandSplit:         OpHandSplit,
	app.EventHandSurrendered:   OpHandSurrendered,
	app.EventDealerPlayed:      OpDealerPlayed,
	app.EventRoundSettled:      OpRoundSettled,
	app.EventRoundAborted:      OpRoundAborted,
	app.EventShoeShuffled:      OpShoeShuffled,
}

// toStruct converts any JSON-tagged value into a protobuf Struct.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("payload is not an object: %w", err)
	}
	return structpb.NewStruct(fields)
}

// encodePayload renders a message body for clients.
func encodePayload(v interface{}) ([]byte, error) {
	s, err := toStruct(v)
	if err != nil {
		return nil, err
	}
	return (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(s)
}

// encodeLabel builds the match label queried by the find-table RPC.
func encodeLabel(open int, phase domain.Phase) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		MatchLabelKey_Game:      matchLabelGame,
		MatchLabelKey_OpenSeats: open,
		MatchLabelKey_Phase:     string(phase),
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

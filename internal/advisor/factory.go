package advisor

import (
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Kind names an advisor in configuration and RPC payloads.
type Kind string

const (
	KindBasic       Kind = "basic"
	KindMimicDealer Kind = "mimic-dealer"
	KindNeverBust   Kind = "never-bust"
)

// Kinds lists every registered advisor.
func Kinds() []Kind {
	return []Kind{KindBasic, KindMimicDealer, KindNeverBust}
}

// Lookup returns the advisor registered under kind.
func Lookup(kind Kind) (Advisor, error) {
	switch kind {
	case KindBasic, "":
		return BasicStrategy{}, nil
	case KindMimicDealer:
		return MimicDealer{}, nil
	case KindNeverBust:
		return NeverBust{}, nil
	default:
		return nil, fmt.Errorf("unknown advisor: %q", kind)
	}
}

// New is Lookup with a fallback: an unknown kind logs a warning and yields
// basic strategy.
func New(kind Kind, logger runtime.Logger) Advisor {
	a, err := Lookup(kind)
	if err != nil {
		if logger != nil {
			logger.Warn("%v, falling back to %s", err, KindBasic)
		}
		return BasicStrategy{}
	}
	return a
}

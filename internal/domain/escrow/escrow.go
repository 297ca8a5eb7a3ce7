// Package escrow tracks funds the platform holds between payment and fulfilment.
package escrow

import "errors"

var ErrInvalidStatus = errors.New("invalid escrow status")

type Status string

const (
	StatusNone     Status = "none"
	StatusHeld     Status = "held"
	StatusReleased Status = "released"
	StatusRefunded Status = "refunded"
)

var labels = map[Status]string{
	StatusNone:     "Not funded",
	StatusHeld:     "Held in escrow",
	StatusReleased: "Released to vendor",
	StatusRefunded: "Refunded to customer",
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := labels[s]
	return ok
}

func (s Status) Label() string {
	return labels[s]
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Hold marks funds as received. Only unfunded escrows can be held.
func (s Status) Hold() (Status, error) {
	if s != StatusNone {
		return s, ErrInvalidStatus
	}
	return StatusHeld, nil
}

func (s Status) Release() (Status, error) {
	if s != StatusHeld {
		return s, ErrInvalidStatus
	}
	return StatusReleased, nil
}

func (s Status) Refund() (Status, error) {
	if s != StatusHeld {
		return s, ErrInvalidStatus
	}
	return StatusRefunded, nil
}

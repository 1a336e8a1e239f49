package session

type Status string

const (
	// StatusApproved is the free-access path (valid permit or site access
	// code). StatusPaid is a visitor session confirmed by the payment
	// provider. StatusVoid is a superseded session. There is no stored
	// pending status: a visitor checkout that has not been confirmed has no
	// session row at all, and "expired" is derived from expires_at.
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
	StatusVoid     Status = "void"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusApproved, StatusPaid, StatusVoid:
		return true
	default:
		return false
	}
}

// Occupying reports whether the status counts toward spot occupancy
// (combined with a nil or future expires_at).
func (s Status) Occupying() bool {
	return s == StatusApproved || s == StatusPaid
}

// Origin records which approval path produced the session.
type Origin string

const (
	OriginAccessCode     Origin = "access_code"
	OriginPermit         Origin = "permit"
	OriginVisitorPayment Origin = "visitor_payment"
)

// Audit notes written on supersession. The two spellings distinguish "the
// vehicle moved elsewhere" from "a new vehicle displaced a stale occupant".
const (
	NoteSupersededByCheckin = "superseded by new check-in"
	NoteSupersededByPaid    = "superseded by paid session"
	NoteSpotTaken           = "spot taken by new vehicle"
)

package domain

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

type Client struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
	Hash  string `db:"password_hash" json:"-"`
	Role  string `db:"role" json:"role"`
	CUIT  string `db:"cuit" json:"cuit,omitempty"`
}

// Identity is what the access gate hands to the core after verifying a
// caller. Nothing downstream reads identity from request payloads.
type Identity struct {
	ClientID int64
	Role     string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

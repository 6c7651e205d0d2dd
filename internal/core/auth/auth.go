// Package auth defines the identity and capability oracle consumed by the
// board. The full permission subsystem lives elsewhere; the board only asks
// who the acting user is and what capabilities they hold.
package auth

// CapManageTasks grants task creation, reassignment, deletion, and
// visibility across all assignees.
const CapManageTasks = "manage_tasks"

// User identifies an acting user.
type User struct {
	ID   string
	Name string
}

// Oracle answers identity and capability queries.
type Oracle interface {
	CurrentUser() User
	HasCapability(name string) bool
}

// StaticOracle is an Oracle backed by a fixed identity and capability set,
// as loaded from configuration.
type StaticOracle struct {
	user User
	caps map[string]struct{}
}

var _ Oracle = (*StaticOracle)(nil)

// NewStaticOracle creates an oracle for the given user and capability names.
func NewStaticOracle(user User, capabilities []string) *StaticOracle {
	caps := make(map[string]struct{}, len(capabilities))
	for _, c := range capabilities {
		caps[c] = struct{}{}
	}
	return &StaticOracle{user: user, caps: caps}
}

// CurrentUser returns the configured identity.
func (o *StaticOracle) CurrentUser() User {
	return o.user
}

// HasCapability reports whether the configured identity holds the capability.
func (o *StaticOracle) HasCapability(name string) bool {
	_, ok := o.caps[name]
	return ok
}

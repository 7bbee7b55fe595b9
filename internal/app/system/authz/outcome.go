// internal/app/system/authz/outcome.go
package authz

import "fmt"

// Kind classifies why a guard denied a request.
type Kind int

const (
	// KindUnauthenticated means no verified identity is present. Recoverable
	// by signing in.
	KindUnauthenticated Kind = iota
	// KindNoOrganization means the identity is verified but holds no usable
	// membership. Recoverable via onboarding.
	KindNoOrganization
	// KindForbidden means the identity and organization are fine but the role
	// is insufficient. Terminal for the current request.
	KindForbidden
	// KindInternal means the check itself could not be evaluated, e.g. a role
	// value outside the known hierarchy. Never treated as an allow.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNoOrganization:
		return "no_organization"
	case KindForbidden:
		return "forbidden"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Denial is a guard's failure outcome. Guards either return the validated
// SessionUser or exactly one Denial, never both. Transport mapping (redirect
// vs. status code) is the adapter's job, not the guard's.
type Denial struct {
	Kind   Kind
	Reason string
}

// Error satisfies the error interface so denials can flow through error
// plumbing when convenient, but callers should branch on Kind, not on text.
func (d *Denial) Error() string {
	if d.Reason == "" {
		return d.Kind.String()
	}
	return d.Kind.String() + ": " + d.Reason
}

func unauthenticated() *Denial {
	return &Denial{Kind: KindUnauthenticated, Reason: "sign-in required"}
}

func noOrganization() *Denial {
	return &Denial{Kind: KindNoOrganization, Reason: "no organization membership"}
}

func forbidden(reason string) *Denial {
	return &Denial{Kind: KindForbidden, Reason: reason}
}

func internal(reason string) *Denial {
	return &Denial{Kind: KindInternal, Reason: reason}
}

package persona

import "fmt"

// Gender of the configured companion.
type Gender string

const (
	Female    Gender = "female"
	Male      Gender = "male"
	NonBinary Gender = "non-binary"
)

// Role is the relationship the companion plays toward the user.
type Role string

const (
	Friend          Role = "friend"
	RomanticPartner Role = "romantic-partner"
	Therapist       Role = "therapist"
	Mentor          Role = "mentor"
	FamilyMember    Role = "family-member"
	Acquaintance    Role = "acquaintance"
)

// Tone is the communication style the companion keeps.
type Tone string

const (
	Empathetic   Tone = "empathetic"
	Romantic     Tone = "romantic"
	Humorous     Tone = "humorous"
	Professional Tone = "professional"
	Casual       Tone = "casual"
)

// Addressing is the Bengali second-person register used when the
// conversation runs in Bengali or Banglish.
type Addressing string

const (
	Apni Addressing = "apni" // formal
	Tumi Addressing = "tumi" // semi-formal
	Tui  Addressing = "tui"  // informal
)

// BotProfile is the user-configured companion persona. It is owned by the
// caller and read-only inside the turn pipeline.
type BotProfile struct {
	ID                string     `json:"id,omitempty"`
	Name              string     `json:"name"`
	Gender            Gender     `json:"gender"`
	Role              Role       `json:"role"`
	Tone              Tone       `json:"tone"`
	Backstory         string     `json:"backstory,omitempty"`
	SpecificTreatment string     `json:"specificTreatment,omitempty"`
	Addressing        Addressing `json:"addressing,omitempty"`
	// CanUseTui forces the informal register for friend personas regardless
	// of the Addressing field.
	CanUseTui bool `json:"canUseTui,omitempty"`
}

// ResolveAddressing picks the single active register for a Bengali or
// Banglish turn. The friend override wins, then the explicit preference,
// then the semi-formal default.
func (p BotProfile) ResolveAddressing() Addressing {
	if p.Role == Friend && p.CanUseTui {
		return Tui
	}
	switch p.Addressing {
	case Apni, Tumi, Tui:
		return p.Addressing
	}
	return Tumi
}

// Validate checks the enum fields of a caller-supplied profile.
func (p BotProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	switch p.Gender {
	case Female, Male, NonBinary:
	default:
		return fmt.Errorf("invalid gender %q", p.Gender)
	}
	switch p.Role {
	case Friend, RomanticPartner, Therapist, Mentor, FamilyMember, Acquaintance:
	default:
		return fmt.Errorf("invalid role %q", p.Role)
	}
	switch p.Tone {
	case Empathetic, Romantic, Humorous, Professional, Casual:
	default:
		return fmt.Errorf("invalid tone %q", p.Tone)
	}
	switch p.Addressing {
	case "", Apni, Tumi, Tui:
	default:
		return fmt.Errorf("invalid addressing %q", p.Addressing)
	}
	return nil
}

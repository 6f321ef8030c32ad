package persona

import "testing"

func TestResolveAddressingFriendOverride(t *testing.T) {
	p := BotProfile{Name: "Mitra", Role: Friend, CanUseTui: true, Addressing: Apni}
	if got := p.ResolveAddressing(); got != Tui {
		t.Errorf("friend with CanUseTui should resolve to tui regardless of preference, got %q", got)
	}
}

func TestResolveAddressingExplicitPreference(t *testing.T) {
	p := BotProfile{Name: "Aria", Role: Therapist, Addressing: Apni}
	if got := p.ResolveAddressing(); got != Apni {
		t.Errorf("explicit apni preference should win, got %q", got)
	}

	// CanUseTui is meaningless outside the friend role.
	p = BotProfile{Name: "Aria", Role: Therapist, Addressing: Apni, CanUseTui: true}
	if got := p.ResolveAddressing(); got != Apni {
		t.Errorf("CanUseTui must not apply to non-friend roles, got %q", got)
	}
}

func TestResolveAddressingDefault(t *testing.T) {
	p := BotProfile{Name: "Mitra", Role: RomanticPartner}
	if got := p.ResolveAddressing(); got != Tumi {
		t.Errorf("unset preference should default to tumi, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	good := BotProfile{Name: "Mitra", Gender: Female, Role: Friend, Tone: Empathetic}
	if err := good.Validate(); err != nil {
		t.Errorf("valid profile rejected: %v", err)
	}

	bad := []BotProfile{
		{Gender: Female, Role: Friend, Tone: Empathetic},                                      // no name
		{Name: "X", Gender: "robot", Role: Friend, Tone: Empathetic},                          // bad gender
		{Name: "X", Gender: Female, Role: "boss", Tone: Empathetic},                           // bad role
		{Name: "X", Gender: Female, Role: Friend, Tone: "sarcastic"},                          // bad tone
		{Name: "X", Gender: Female, Role: Friend, Tone: Empathetic, Addressing: "your-honor"}, // bad register
	}
	for i, p := range bad {
		if err := p.Validate(); err == nil {
			t.Errorf("case %d: invalid profile accepted: %+v", i, p)
		}
	}
}

package types

import (
	"encoding/json"
	"fmt"
)

// Server -> Client directives, drained from a player's mailbox by GET /updates.
//
// Wire form is externally tagged:
//   "hi"
//   {"player_join":    {"name": string}}
//   {"role":           {"role": Role}}
//   {"mission":        {"mission": Mission}}
//   {"juliette":       {"juliette": {"juliette": PlayerPosition, "substitute": PlayerPosition}}}
//   {"two_face_state": {"inting": bool}}
//   {"state":          {"state": StateName}}

type DirectiveKind string

const (
	KindHi           DirectiveKind = "hi"
	KindPlayerJoin   DirectiveKind = "player_join"
	KindRole         DirectiveKind = "role"
	KindMission      DirectiveKind = "mission"
	KindJuliette     DirectiveKind = "juliette"
	KindTwoFaceState DirectiveKind = "two_face_state"
	KindState        DirectiveKind = "state"
)

// Directive is a single message for a single player. Only the fields of
// its Kind are meaningful.
type Directive struct {
	Kind     DirectiveKind
	Name     string
	Role     Role
	Mission  Mission
	Juliette Juliette
	Inting   bool
	State    StateName
}

func Hi() Directive                          { return Directive{Kind: KindHi} }
func PlayerJoin(name string) Directive       { return Directive{Kind: KindPlayerJoin, Name: name} }
func RoleAssigned(role Role) Directive       { return Directive{Kind: KindRole, Role: role} }
func MissionAssigned(m Mission) Directive    { return Directive{Kind: KindMission, Mission: m} }
func JulietteAssigned(j Juliette) Directive  { return Directive{Kind: KindJuliette, Juliette: j} }
func TwoFaceState(inting bool) Directive     { return Directive{Kind: KindTwoFaceState, Inting: inting} }
func StateChanged(state StateName) Directive { return Directive{Kind: KindState, State: state} }

type playerJoinBody struct {
	Name string `json:"name"`
}

type roleBody struct {
	Role Role `json:"role"`
}

type missionBody struct {
	Mission Mission `json:"mission"`
}

type julietteBody struct {
	Juliette Juliette `json:"juliette"`
}

type twoFaceBody struct {
	Inting bool `json:"inting"`
}

type stateBody struct {
	State StateName `json:"state"`
}

func (d Directive) MarshalJSON() ([]byte, error) {
	var body any
	switch d.Kind {
	case KindHi:
		return json.Marshal(string(KindHi))
	case KindPlayerJoin:
		body = playerJoinBody{Name: d.Name}
	case KindRole:
		body = roleBody{Role: d.Role}
	case KindMission:
		body = missionBody{Mission: d.Mission}
	case KindJuliette:
		body = julietteBody{Juliette: d.Juliette}
	case KindTwoFaceState:
		body = twoFaceBody{Inting: d.Inting}
	case KindState:
		body = stateBody{State: d.State}
	default:
		return nil, fmt.Errorf("unknown directive kind %q", d.Kind)
	}
	return json.Marshal(map[DirectiveKind]any{d.Kind: body})
}

func (d *Directive) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		if DirectiveKind(bare) != KindHi {
			return fmt.Errorf("unknown directive %q", bare)
		}
		*d = Hi()
		return nil
	}

	var tagged map[DirectiveKind]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if len(tagged) != 1 {
		return fmt.Errorf("directive must have exactly one tag, got %d", len(tagged))
	}

	for kind, raw := range tagged {
		out := Directive{Kind: kind}
		var err error
		switch kind {
		case KindPlayerJoin:
			var b playerJoinBody
			err = json.Unmarshal(raw, &b)
			out.Name = b.Name
		case KindRole:
			var b roleBody
			err = json.Unmarshal(raw, &b)
			out.Role = b.Role
		case KindMission:
			var b missionBody
			err = json.Unmarshal(raw, &b)
			out.Mission = b.Mission
		case KindJuliette:
			var b julietteBody
			err = json.Unmarshal(raw, &b)
			out.Juliette = b.Juliette
		case KindTwoFaceState:
			var b twoFaceBody
			err = json.Unmarshal(raw, &b)
			out.Inting = b.Inting
		case KindState:
			var b stateBody
			err = json.Unmarshal(raw, &b)
			out.State = b.State
		default:
			return fmt.Errorf("unknown directive kind %q", kind)
		}
		if err != nil {
			return err
		}
		*d = out
	}
	return nil
}

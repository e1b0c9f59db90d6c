package types

import "encoding/json"

// StateName is the public tag of a game's lifecycle state.
type StateName string

const (
	StateSetup  StateName = "setup"
	StateDraft  StateName = "draft"
	StateInGame StateName = "in_game"
	StateVoting StateName = "voting"
	StateEnd    StateName = "end"
)

// Ballot maps every other player's name to the role the voter attributes to them.
type Ballot map[string]Role

// GameStatus is the public view of a game:
//
//	uid: string
//	player_names: string[]
//	state: "setup" | "draft" | "in_game"
//	     | {"state": "voting", votes_received: string[]}
//	     | {"state": "end", votes: {voter: Ballot}, roles: {name: Role}, scores: {name: number}}
type GameStatus struct {
	UID         string    `json:"uid"`
	PlayerNames []string  `json:"player_names"`
	State       StateView `json:"state"`
}

// AuthenticatedGameStatus is GameStatus plus the caller's own role snapshot.
// PlayerState is nil while the game is in Setup.
type AuthenticatedGameStatus struct {
	GameStatus
	PlayerState *PlayerState `json:"player_state"`
}

type StateView struct {
	Name          StateName
	VotesReceived []string
	Votes         map[string]Ballot
	Roles         map[string]Role
	Scores        map[string]int
}

func (v StateView) MarshalJSON() ([]byte, error) {
	switch v.Name {
	case StateVoting:
		received := v.VotesReceived
		if received == nil {
			received = []string{}
		}
		return json.Marshal(struct {
			State         StateName `json:"state"`
			VotesReceived []string  `json:"votes_received"`
		}{v.Name, received})
	case StateEnd:
		return json.Marshal(struct {
			State  StateName         `json:"state"`
			Votes  map[string]Ballot `json:"votes"`
			Roles  map[string]Role   `json:"roles"`
			Scores map[string]int    `json:"scores"`
		}{v.Name, v.Votes, v.Roles, v.Scores})
	default:
		return json.Marshal(v.Name)
	}
}

func (v *StateView) UnmarshalJSON(data []byte) error {
	var name StateName
	if err := json.Unmarshal(data, &name); err == nil {
		*v = StateView{Name: name}
		return nil
	}
	var obj struct {
		State         StateName         `json:"state"`
		VotesReceived []string          `json:"votes_received"`
		Votes         map[string]Ballot `json:"votes"`
		Roles         map[string]Role   `json:"roles"`
		Scores        map[string]int    `json:"scores"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*v = StateView{
		Name:          obj.State,
		VotesReceived: obj.VotesReceived,
		Votes:         obj.Votes,
		Roles:         obj.Roles,
		Scores:        obj.Scores,
	}
	return nil
}

// PlayerState is the role-tagged public view of a behaviour's private state:
//
//	{"class": "droid", "mission": Mission | null}
//	{"class": "two_face", "inting": bool}
//	{"class": "romeo", "juliette": Juliette | null}
//	{"class": <other role>}
type PlayerState struct {
	Class    Role
	Mission  *Mission
	Inting   bool
	Juliette *Juliette
}

func (s PlayerState) MarshalJSON() ([]byte, error) {
	switch s.Class {
	case RoleDroid:
		return json.Marshal(struct {
			Class   Role     `json:"class"`
			Mission *Mission `json:"mission"`
		}{s.Class, s.Mission})
	case RoleTwoFace:
		return json.Marshal(struct {
			Class  Role `json:"class"`
			Inting bool `json:"inting"`
		}{s.Class, s.Inting})
	case RoleRomeo:
		return json.Marshal(struct {
			Class    Role      `json:"class"`
			Juliette *Juliette `json:"juliette"`
		}{s.Class, s.Juliette})
	default:
		return json.Marshal(struct {
			Class Role `json:"class"`
		}{s.Class})
	}
}

func (s *PlayerState) UnmarshalJSON(data []byte) error {
	var obj struct {
		Class    Role      `json:"class"`
		Mission  *Mission  `json:"mission"`
		Inting   bool      `json:"inting"`
		Juliette *Juliette `json:"juliette"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = PlayerState{Class: obj.Class, Mission: obj.Mission, Inting: obj.Inting, Juliette: obj.Juliette}
	return nil
}

package types

// Role is the hidden identity dealt to a player when a game leaves Setup.
type Role string

const (
	RoleSuperHero Role = "super_hero"
	RoleImpostor  Role = "impostor"
	RoleCrook     Role = "crook"
	RoleKamikaze  Role = "kamikaze"
	RoleRomeo     Role = "romeo"
	RoleTwoFace   Role = "two_face"
	RoleDroid     Role = "droid"
)

var AllRoles = []Role{
	RoleSuperHero,
	RoleImpostor,
	RoleCrook,
	RoleKamikaze,
	RoleRomeo,
	RoleTwoFace,
	RoleDroid,
}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Mission is a task surfaced to a Droid.
type Mission string

const (
	MissionSummoners  Mission = "summoners"
	MissionGoTop      Mission = "go_top"
	MissionGoBot      Mission = "go_bot"
	MissionTakeBlue   Mission = "take_blue"
	MissionTakeRed    Mission = "take_red"
	MissionSing       Mission = "sing"
	MissionExhortTeam Mission = "exhort_team"
	MissionStayBase   Mission = "stay_base"
	MissionIntPingMs  Mission = "int_ping_ms"
	MissionEmote      Mission = "emote"
	MissionQOnCd      Mission = "q_on_cd"
	MissionWOnCd      Mission = "w_on_cd"
	MissionEOnCd      Mission = "e_on_cd"
)

var Missions = []Mission{
	MissionSummoners,
	MissionGoTop,
	MissionGoBot,
	MissionTakeBlue,
	MissionTakeRed,
	MissionSing,
	MissionExhortTeam,
	MissionStayBase,
	MissionIntPingMs,
	MissionEmote,
	MissionQOnCd,
	MissionWOnCd,
	MissionEOnCd,
}

// PlayerPosition is one of the ten lanes of a match, seen from the player's side.
type PlayerPosition string

const (
	AllyTop      PlayerPosition = "ally_top"
	AllyJungle   PlayerPosition = "ally_jungle"
	AllyMid      PlayerPosition = "ally_mid"
	AllyBot      PlayerPosition = "ally_bot"
	AllySupport  PlayerPosition = "ally_support"
	EnemyTop     PlayerPosition = "enemy_top"
	EnemyJungle  PlayerPosition = "enemy_jungle"
	EnemyMid     PlayerPosition = "enemy_mid"
	EnemyBot     PlayerPosition = "enemy_bot"
	EnemySupport PlayerPosition = "enemy_support"
)

var Positions = []PlayerPosition{
	AllyTop, AllyJungle, AllyMid, AllyBot, AllySupport,
	EnemyTop, EnemyJungle, EnemyMid, EnemyBot, EnemySupport,
}

// Juliette is the pair of lanes Romeo has to protect.
type Juliette struct {
	Juliette   PlayerPosition `json:"juliette"`
	Substitute PlayerPosition `json:"substitute"`
}

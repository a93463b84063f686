package riot

// MatchResponse represents the response from /lol/match/v5/matches/{matchId}
type MatchResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`

	// Raw is the unmodified provider response body. The decoded fields above
	// cover what the analysis needs; persistence stores Raw so nothing the
	// provider sent is lost.
	Raw []byte `json:"-"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type MatchInfo struct {
	GameCreation int64              `json:"gameCreation"`
	GameDuration int                `json:"gameDuration"` // seconds
	GameVersion  string             `json:"gameVersion"`
	GameMode     string             `json:"gameMode"` // raw mode string, e.g. CLASSIC, ARAM, CHERRY
	QueueID      int                `json:"queueId"`
	Participants []MatchParticipant `json:"participants"`
	Teams        []Team             `json:"teams"`
}

type MatchParticipant struct {
	ParticipantID  int    `json:"participantId"`
	PUUID          string `json:"puuid"`
	RiotIdGameName string `json:"riotIdGameName"`
	RiotIdTagline  string `json:"riotIdTagline"`
	ChampionID     int    `json:"championId"`
	ChampionName   string `json:"championName"`
	TeamID         int    `json:"teamId"`
	TeamPosition   string `json:"teamPosition"` // TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY
	Win            bool   `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	GoldEarned                  int `json:"goldEarned"`
	TotalMinionsKilled          int `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int `json:"neutralMinionsKilled"`
	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int `json:"totalDamageTaken"`
	VisionScore                 int `json:"visionScore"`
	WardsPlaced                 int `json:"wardsPlaced"`
	WardsKilled                 int `json:"wardsKilled"`
	TurretTakedowns             int `json:"turretTakedowns"`
	DragonTakedowns             int `json:"dragonTakedowns"`
	BaronTakedowns              int `json:"baronTakedowns"`

	// Arena-specific: final placement 1-8, 0 elsewhere.
	Placement int `json:"placement,omitempty"`
}

type Team struct {
	TeamID int  `json:"teamId"`
	Win    bool `json:"win"`
}

// TimelineResponse represents the response from /lol/match/v5/matches/{matchId}/timeline
type TimelineResponse struct {
	Metadata TimelineMetadata `json:"metadata"`
	Info     TimelineInfo     `json:"info"`

	// Raw is the unmodified provider response body, kept for persistence.
	Raw []byte `json:"-"`
}

type TimelineMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type TimelineInfo struct {
	FrameInterval int             `json:"frameInterval"` // ms, normally 60000
	Frames        []TimelineFrame `json:"frames"`
}

// TimelineFrame is one per-minute snapshot. ParticipantFrames is keyed by the
// participant id rendered as a string, matching the provider's wire shape.
type TimelineFrame struct {
	Timestamp         int                         `json:"timestamp"` // ms
	ParticipantFrames map[string]ParticipantFrame `json:"participantFrames"`
	Events            []TimelineEvent             `json:"events"`
}

type ParticipantFrame struct {
	ParticipantID       int      `json:"participantId"`
	TotalGold           int      `json:"totalGold"`
	XP                  int      `json:"xp"`
	Level               int      `json:"level"`
	MinionsKilled       int      `json:"minionsKilled"`
	JungleMinionsKilled int      `json:"jungleMinionsKilled"`
	Position            Position `json:"position"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Event type constants for the fields consumed by the evidence extractor.
const (
	EventChampionKill     = "CHAMPION_KILL"
	EventWardPlaced       = "WARD_PLACED"
	EventWardKill         = "WARD_KILL"
	EventBuildingKill     = "BUILDING_KILL"
	EventEliteMonsterKill = "ELITE_MONSTER_KILL"
	EventItemPurchased    = "ITEM_PURCHASED"
	EventSkillLevelUp     = "SKILL_LEVEL_UP"
	// Emitted by enriched timeline providers; absent from bare match-v5 feeds.
	EventSummonerSpellUsed = "SUMMONER_SPELL_USED"
)

type TimelineEvent struct {
	Type      string `json:"type"`
	Timestamp int    `json:"timestamp"` // ms

	ParticipantID int `json:"participantId,omitempty"`
	ItemID        int `json:"itemId,omitempty"`
	SkillSlot     int `json:"skillSlot,omitempty"`

	// CHAMPION_KILL
	KillerID                int      `json:"killerId,omitempty"`
	VictimID                int      `json:"victimId,omitempty"`
	AssistingParticipantIDs []int    `json:"assistingParticipantIds,omitempty"`
	Position                Position `json:"position,omitempty"`

	// WARD_PLACED / WARD_KILL
	CreatorID int    `json:"creatorId,omitempty"`
	WardType  string `json:"wardType,omitempty"`

	// SUMMONER_SPELL_USED
	SpellName string `json:"spellName,omitempty"`

	// ELITE_MONSTER_KILL / BUILDING_KILL
	MonsterType  string `json:"monsterType,omitempty"`
	BuildingType string `json:"buildingType,omitempty"`
}

// ParticipantByID returns the match participant with the given id, or nil.
func (m *MatchResponse) ParticipantByID(participantID int) *MatchParticipant {
	for i := range m.Info.Participants {
		if m.Info.Participants[i].ParticipantID == participantID {
			return &m.Info.Participants[i]
		}
	}
	return nil
}

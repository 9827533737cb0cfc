package presence

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// StatusUpdater is the part of a Discord session presence needs.
type StatusUpdater interface {
	UpdateStatusComplex(usd discordgo.UpdateStatusData) error
}

// PresenceManager keeps the bot's Discord status current.
type PresenceManager struct {
	session StatusUpdater
	guilds  func() int
	prefix  string
	log     zerolog.Logger
}

// NewPresenceManager creates a manager. guilds reports how many servers
// the bot is in; prefix is the command prefix shown in the status.
func NewPresenceManager(session StatusUpdater, guilds func() int, prefix string, log zerolog.Logger) *PresenceManager {
	return &PresenceManager{
		session: session,
		guilds:  guilds,
		prefix:  prefix,
		log:     log,
	}
}

// SessionGuilds counts the guilds in a session's state cache.
func SessionGuilds(s *discordgo.Session) func() int {
	return func() int {
		if s.State == nil {
			return 0
		}
		s.State.RLock()
		defer s.State.RUnlock()
		return len(s.State.Guilds)
	}
}

// Status builds the status shown next to the bot.
func (pm *PresenceManager) Status() discordgo.UpdateStatusData {
	return discordgo.UpdateStatusData{
		Status: string(discordgo.StatusOnline),
		Activities: []*discordgo.Activity{
			{
				Name:  pm.prefix + "r replies",
				Type:  discordgo.ActivityTypeWatching,
				State: "in " + strconv.Itoa(pm.guilds()) + " servers",
			},
		},
	}
}

// Update pushes the current status.
func (pm *PresenceManager) Update() error {
	status := pm.Status()
	if err := pm.session.UpdateStatusComplex(status); err != nil {
		return errors.Wrap(err, "updating presence")
	}
	pm.log.Debug().Str("state", status.Activities[0].State).Msg("presence updated")
	return nil
}

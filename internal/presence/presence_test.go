package presence

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	updates []discordgo.UpdateStatusData
	err     error
}

func (f *fakeSession) UpdateStatusComplex(usd discordgo.UpdateStatusData) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, usd)
	return nil
}

func TestUpdatePushesGuildCount(t *testing.T) {
	session := &fakeSession{}
	guilds := 3
	pm := NewPresenceManager(session, func() int { return guilds }, "!", zerolog.Nop())

	require.NoError(t, pm.Update())
	guilds = 4
	require.NoError(t, pm.Update())

	require.Len(t, session.updates, 2)
	first := session.updates[0].Activities[0]
	assert.Equal(t, "!r replies", first.Name)
	assert.Equal(t, discordgo.ActivityTypeWatching, first.Type)
	assert.Equal(t, "in 3 servers", first.State)
	assert.Equal(t, "in 4 servers", session.updates[1].Activities[0].State)
}

func TestUpdateWrapsErrors(t *testing.T) {
	gatewayDown := errors.New("gateway down")
	pm := NewPresenceManager(&fakeSession{err: gatewayDown}, func() int { return 0 }, "!", zerolog.Nop())

	err := pm.Update()
	require.Error(t, err)
	assert.True(t, errors.Is(err, gatewayDown))
}

func TestSessionGuilds(t *testing.T) {
	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.Guilds = []*discordgo.Guild{{ID: "1"}, {ID: "2"}}
	assert.Equal(t, 2, SessionGuilds(s)())
	assert.Equal(t, 0, SessionGuilds(&discordgo.Session{})())
}

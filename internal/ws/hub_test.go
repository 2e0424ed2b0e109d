package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mverkerk/rpsbattle/internal/model"
	"github.com/mverkerk/rpsbattle/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub *Hub
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub(testutil.NopLogger())
}

// newTestClient builds a client with a buffered send queue and no
// underlying connection
func (s *HubSuite) newTestClient(id string) *Client {
	return &Client{
		id:     id,
		send:   make(chan []byte, 4),
		logger: testutil.NopLogger(),
	}
}

func (s *HubSuite) receive(client *Client) Envelope {
	select {
	case data := <-client.send:
		var env Envelope
		s.Require().NoError(json.Unmarshal(data, &env))
		return env
	default:
		s.Require().FailNow("no message queued for client " + client.id)
		return Envelope{}
	}
}

func (s *HubSuite) TestJoinAndRoomSize() {
	c1 := s.newTestClient("c1")
	c2 := s.newTestClient("c2")

	s.hub.Join("abc123", c1)
	s.hub.Join("abc123", c2)

	s.Equal(2, s.hub.RoomSize("abc123"))
	s.Equal(0, s.hub.RoomSize("other"))
}

func (s *HubSuite) TestBroadcastReachesAllRoomMembers() {
	c1 := s.newTestClient("c1")
	c2 := s.newTestClient("c2")
	outsider := s.newTestClient("c3")

	s.hub.Join("abc123", c1)
	s.hub.Join("abc123", c2)
	s.hub.Join("other", outsider)

	s.hub.Broadcast("abc123", EventGameOver, GameOverPayload{WinnerID: "p1"})

	for _, c := range []*Client{c1, c2} {
		env := s.receive(c)
		s.Equal(EventGameOver, env.Event)

		var payload GameOverPayload
		s.Require().NoError(json.Unmarshal(env.Payload, &payload))
		s.Equal("p1", payload.WinnerID)
	}

	s.Empty(outsider.send)
}

func (s *HubSuite) TestLeaveStopsDelivery() {
	c1 := s.newTestClient("c1")
	s.hub.Join("abc123", c1)
	s.hub.Leave("abc123", c1)

	s.hub.Broadcast("abc123", EventGameStateUpdate, nil)
	s.Empty(c1.send)
	s.Equal(0, s.hub.RoomSize("abc123"))
}

func (s *HubSuite) TestLeaveAllClearsEveryRoom() {
	c1 := s.newTestClient("c1")
	s.hub.Join("abc123", c1)
	s.hub.Join("def456", c1)

	s.hub.LeaveAll(c1)

	s.Equal(0, s.hub.RoomSize("abc123"))
	s.Equal(0, s.hub.RoomSize("def456"))
}

func (s *HubSuite) TestBroadcastDropsOnFullBuffer() {
	slow := &Client{
		id:     "slow",
		send:   make(chan []byte),
		logger: testutil.NopLogger(),
	}
	s.hub.Join("abc123", slow)

	// Nobody drains the channel; the broadcast must not block
	s.hub.Broadcast("abc123", EventGameStateUpdate, &model.Game{ID: "abc123"})
}

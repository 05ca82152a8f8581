package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wabble-server/internal/config"
	"github.com/vovakirdan/wabble-server/internal/core"
	"github.com/vovakirdan/wabble-server/internal/metrics"
	"github.com/vovakirdan/wabble-server/internal/proto"
)

// inboundFrame is one event from the read pump: a text payload, a clean
// end-of-stream, or an abrupt transport error.
type inboundFrame struct {
	data []byte
	err  error
	eof  bool
}

// socketConn is the per-connection actor. It owns one socket, one persona and
// at most one room subscription, and multiplexes inbound frames against the
// subscribed room's broadcast stream.
type socketConn struct {
	id       uuid.UUID
	conn     *websocket.Conn
	persona  *core.Persona
	registry *core.Registry
	cfg      config.Config
	log      zerolog.Logger

	sub *core.RoomSubscription
}

func newSocketConn(conn *websocket.Conn, reg *core.Registry, cfg config.Config, logger *zerolog.Logger) *socketConn {
	id := uuid.New()
	return &socketConn{
		id:       id,
		conn:     conn,
		persona:  core.NewPersona(id),
		registry: reg,
		cfg:      cfg,
		log:      logger.With().Stringer("session_id", id).Logger(),
	}
}

func (s *socketConn) serve(ctx context.Context) {
	// any teardown path must release a held subscription exactly once
	defer s.leaveRoom()

	if err := s.sendHandshake(ctx); err != nil {
		s.log.Warn().Err(err).Msg("send handshake")
		return
	}

	frames := make(chan inboundFrame)
	go s.readPump(ctx, frames)

	for {
		// while idle the broadcast branch is a nil channel: parked, never ready
		var events <-chan core.RoomMessage
		if s.sub != nil {
			events = s.sub.Events()
		}

		select {
		case fr, ok := <-frames:
			if !ok {
				// read pump exited without an end-of-stream event (context
				// raced it); keep relaying broadcasts until the context ends
				frames = nil
				continue
			}
			switch {
			case fr.eof:
				s.log.Debug().Msg("client disconnected gracefully")
				s.leaveRoom()
				return
			case fr.err != nil:
				s.log.Debug().Err(fr.err).Msg("client disconnected abruptly")
				s.leaveRoom()
			default:
				s.handleFrame(fr.data)
			}
		case msg, ok := <-events:
			if !ok {
				// room stream torn down: treat like an explicit leave
				s.leaveRoom()
				continue
			}
			s.handleBroadcast(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}

func (s *socketConn) readPump(ctx context.Context, frames chan<- inboundFrame) {
	defer close(frames)

	for {
		kind, data, err := s.conn.Read(ctx)
		if err != nil {
			if !closedCleanly(err) {
				// abrupt failure: report it first, the stream still ends after
				select {
				case frames <- inboundFrame{err: err}:
				case <-ctx.Done():
					return
				}
			}
			select {
			case frames <- inboundFrame{eof: true}:
			case <-ctx.Done():
			}
			return
		}
		if kind != websocket.MessageText {
			// binary frames carry nothing in this protocol
			continue
		}
		select {
		case frames <- inboundFrame{data: data}:
		case <-ctx.Done():
			return
		}
	}
}

func closedCleanly(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}

func (s *socketConn) sendHandshake(ctx context.Context) error {
	return s.send(ctx, proto.OpcodeHandshake, proto.Handshake{
		SessionID:         s.id,
		HeartbeatInterval: s.cfg.HeartbeatSeconds(),
		ActiveConnections: s.registry.ActiveConnections(),
		PublicRooms:       publicRoomSummaries(s.registry),
	})
}

func (s *socketConn) send(ctx context.Context, opcode string, payload any) error {
	env, err := proto.NewEnvelope(opcode, payload)
	if err != nil {
		return err
	}
	return wsjson.Write(ctx, s.conn, env)
}

func (s *socketConn) handleFrame(data []byte) {
	var env proto.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// one bad frame never costs the whole connection
		s.log.Warn().Err(err).Msg("dropping malformed frame")
		return
	}

	switch env.Opcode {
	case proto.OpcodePersona:
		s.handlePersona(env.Data)
	case proto.OpcodeJoinRoom:
		s.handleJoinRoom(env.Data)
	case proto.OpcodeSendMessage:
		s.handleSendMessage(env.Data)
	case proto.OpcodeCreateRoom:
		s.leaveRoom()
		s.createAndJoin()
	default:
		s.log.Debug().Str("opcode", env.Opcode).Msg("ignoring unknown opcode")
	}
}

func (s *socketConn) handlePersona(data []byte) {
	var upd proto.PersonaUpdate
	if err := json.Unmarshal(data, &upd); err != nil {
		s.log.Warn().Err(err).Msg("dropping malformed persona update")
		return
	}

	if upd.Name != nil && !s.persona.SetName(*upd.Name) {
		s.log.Debug().Msg("rejected persona name update, keeping previous")
	}
	if upd.Color != nil && !s.persona.SetColor(*upd.Color) {
		s.log.Debug().Msg("rejected persona color update, keeping previous")
	}
	if s.sub != nil {
		s.sub.Room().RecheckCollision(s.persona)
	}
}

func (s *socketConn) handleJoinRoom(data []byte) {
	var join proto.JoinRoom
	if err := json.Unmarshal(data, &join); err != nil {
		s.log.Warn().Err(err).Msg("dropping malformed join request")
		return
	}

	s.leaveRoom()

	room, ok := s.registry.Get(core.RoomID(join.ID))
	if !ok {
		// unknown code: fall back to creating a fresh private room
		s.createAndJoin()
		return
	}
	s.joinRoom(room)
}

func (s *socketConn) handleSendMessage(data []byte) {
	var msg proto.SendMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Warn().Err(err).Msg("dropping malformed message")
		return
	}

	if s.sub == nil {
		s.log.Debug().Msg("no room joined, ignoring message")
		return
	}

	s.sub.Room().Broadcast(core.RoomMessage{
		Persona: s.persona.Snapshot(),
		Text:    msg.Message,
	})
	metrics.MessagesBroadcast.WithLabelValues("user").Inc()
}

// joinRoom subscribes and announces the join. Reports whether the room
// accepted the subscription; a full room is declined without telling the
// client, there is no NACK in the protocol.
func (s *socketConn) joinRoom(room *core.Room) bool {
	sub := room.Subscribe(s.persona)
	if sub == nil {
		s.log.Debug().Stringer("room", room).Msg("room is full, cannot join")
		metrics.JoinsDeclined.Inc()
		return false
	}
	s.sub = sub

	room.Broadcast(core.JoinNotice(s.persona.Name()))
	metrics.MessagesBroadcast.WithLabelValues("system").Inc()
	s.log.Debug().Stringer("room", room).Msg("joined room")
	return true
}

func (s *socketConn) createAndJoin() {
	room := s.registry.Insert(core.NewPrivateRoom())
	metrics.PrivateRoomsCreated.Inc()
	s.log.Debug().Stringer("room", room).Msg("created private room")

	if s.joinRoom(room) {
		room.Broadcast(core.InviteNotice(room.ID))
		metrics.MessagesBroadcast.WithLabelValues("system").Inc()
	}
}

func (s *socketConn) handleBroadcast(ctx context.Context, msg core.RoomMessage) {
	if n := s.sub.TakeLagged(); n > 0 {
		// slow reader: the oldest backlog was dropped, nothing to tell the client
		s.log.Warn().Int64("skipped", n).Msg("subscriber lagged")
		metrics.BroadcastLagDrops.Add(float64(n))
	}

	if msg.Persona.ID == s.id {
		// no self-echo
		return
	}

	err := s.send(ctx, proto.OpcodeEchoMessage, proto.EchoMessage{
		Persona: proto.MessagePersona{
			ID:    msg.Persona.ID,
			Name:  msg.Persona.Name,
			Color: msg.Persona.Color,
		},
		Message: msg.Text,
		Drawing: msg.Drawing,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("write echo message")
	}
}

// leaveRoom announces the departure (best effort) and releases the
// subscription. Safe to call with no room joined.
func (s *socketConn) leaveRoom() {
	if s.sub == nil {
		return
	}
	room := s.sub.Room()

	room.Broadcast(core.LeaveNotice(s.persona.Name()))
	metrics.MessagesBroadcast.WithLabelValues("system").Inc()

	s.sub.Release()
	s.sub = nil
	s.log.Debug().Stringer("room", room).Msg("left room")
}

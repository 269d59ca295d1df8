package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/questabletractor/internal/attachments"
	"github.com/lawnchairsociety/questabletractor/internal/database"
	"github.com/lawnchairsociety/questabletractor/internal/inventory"
	"github.com/lawnchairsociety/questabletractor/internal/logger"
	"github.com/lawnchairsociety/questabletractor/internal/moddata"
	"github.com/lawnchairsociety/questabletractor/internal/orchestrator"
	"github.com/lawnchairsociety/questabletractor/internal/quests"
)

// session is one game connection. All quest work for a save happens on its
// read loop, so the engine never sees concurrent calls.
type session struct {
	srv  *Server
	conn *Conn
	ip   string

	ownerID string
	data    *moddata.Data
	mirror  *Mirror
	feed    *inventory.Feed
	orch    *orchestrator.Orchestrator

	// sendErr is the first failed write; the session ends after it.
	sendErr error
}

func newSession(srv *Server, conn *Conn, ip string) *session {
	return &session{srv: srv, conn: conn, ip: ip}
}

func (s *session) run() {
	logger.Info("game connected", "remote_addr", s.conn.RemoteAddr())
	defer s.closed()

	for {
		env, err := s.conn.Read()
		if err != nil {
			if errors.Is(err, errMalformed) {
				s.fail(env.ID, err)
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warning("game connection lost", "error", err)
			}
			return
		}

		if err := s.handle(env); err != nil {
			s.fail(env.ID, err)
			if errors.Is(err, ErrUnauthorized) {
				return
			}
		}
		if s.sendErr != nil {
			logger.Warning("failed to write to game", "error", s.sendErr)
			return
		}
	}
}

func (s *session) closed() {
	if s.data != nil && s.data.Dirty() {
		logger.Info("game disconnected with unsaved quest progress", "owner", s.ownerID)
		return
	}
	logger.Info("game disconnected", "owner", s.ownerID)
}

func (s *session) fail(id int64, err error) {
	logger.Warning("rejected game message", "error", err)
	s.send(TypeError, id, ErrorData{Message: err.Error()})
}

func (s *session) send(msgType string, id int64, payload any) {
	if s.sendErr != nil {
		return
	}
	if err := s.conn.Send(msgType, id, payload); err != nil {
		s.sendErr = err
	}
}

// effect is the Mirror's Sender.
func (s *session) effect(msgType string, payload any) {
	s.send(msgType, 0, payload)
}

func (s *session) reply(id int64, r ReplyData) {
	s.send(TypeReply, id, r)
}

func decode(env Envelope, v any) error {
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("bad %s payload: %w", env.Type, err)
	}
	return nil
}

func (s *session) handle(env Envelope) error {
	if env.Type == TypeHello {
		return s.hello(env)
	}
	if s.orch == nil {
		return fmt.Errorf("%s before hello", env.Type)
	}

	switch env.Type {
	case TypeWorld:
		var w WorldData
		if err := decode(env, &w); err != nil {
			return err
		}
		s.mirror.Apply(&w)

	case TypeDayStarted:
		var d DayStartedData
		if err := decode(env, &d); err != nil {
			return err
		}
		s.mirror.Apply(d.World)
		s.orch.DayStarted(d.Date)

	case TypeInventoryAdded:
		var d InventoryAddedData
		if err := decode(env, &d); err != nil {
			return err
		}
		for _, item := range d.Items {
			s.mirror.Received(d.PlayerID, item.ID, item.Stack)
		}
		s.feed.Publish(inventory.Change{PlayerID: d.PlayerID, Added: d.Items})

	case TypeInteraction:
		var d InteractionData
		if err := decode(env, &d); err != nil {
			return err
		}
		s.reply(env.ID, ReplyData{Handled: s.orch.Interaction(d.NPC, d.HeldItem)})

	case TypeTick:
		var d TickData
		if err := decode(env, &d); err != nil {
			return err
		}
		s.reply(env.ID, ReplyData{Handled: s.orch.Tick(d.PlayerID, d.HeldItem, d.InGarage)})

	case TypeFish:
		var d FishData
		if err := decode(env, &d); err != nil {
			return err
		}
		item, ok := s.orch.Fish(quests.Cast{PlayerID: d.PlayerID, OnFarm: d.OnFarm, HeldTool: d.HeldTool})
		s.reply(env.ID, ReplyData{Handled: ok, Item: item})

	case TypeInspectDerelict:
		var d InspectDerelictData
		if err := decode(env, &d); err != nil {
			return err
		}
		s.reply(env.ID, ReplyData{Handled: s.orch.InspectDerelict(d.PlayerID)})

	case TypeDayEnding:
		s.orch.DayEnding()
		if err := s.save(); err != nil {
			return err
		}
		s.reply(env.ID, ReplyData{Handled: true})

	default:
		return fmt.Errorf("unknown message type %q", env.Type)
	}
	return nil
}

func (s *session) hello(env Envelope) error {
	if s.orch != nil {
		return fmt.Errorf("already greeted as %s", s.ownerID)
	}

	var h HelloData
	if err := decode(env, &h); err != nil {
		return err
	}

	limiter := s.srv.helloLimiter
	if locked, remaining := limiter.IsLocked(s.ip); locked {
		return fmt.Errorf("%w: locked out for %s", ErrUnauthorized, remaining.Round(time.Second))
	}
	if err := CheckToken(s.srv.opts.Bridge.TokenHash, h.Token); err != nil {
		if locked, d := limiter.RecordFailure(s.ip); locked {
			logger.Warning("bridge token lockout", "client_ip", s.ip, "duration", d.String())
		}
		return err
	}
	limiter.RecordSuccess(s.ip)

	if h.OwnerID == "" {
		return fmt.Errorf("hello needs an owner_id")
	}

	values, err := s.srv.opts.Store.LoadModData(h.OwnerID)
	switch {
	case errors.Is(err, database.ErrPlayerNotFound):
		logger.Info("no saved quest data, starting fresh", "owner", h.OwnerID)
	case err != nil:
		return fmt.Errorf("failed to load mod data: %w", err)
	}

	s.ownerID = h.OwnerID
	s.data = moddata.New(h.OwnerID)
	s.data.Load(h.OwnerID, values)
	s.mirror = NewMirror(h.OwnerID, s.effect)
	s.mirror.Apply(h.World)
	s.feed = inventory.NewFeed()

	opts := s.srv.opts
	var rng quests.Rand
	if opts.NewRand != nil {
		rng = opts.NewRand()
	}
	orch, err := orchestrator.New(orchestrator.Config{
		Store:    s.data,
		Host:     s.mirror,
		Watcher:  inventory.NewRegistry(s.feed, s.mirror, s.mirror),
		Text:     opts.Text,
		Rand:     rng,
		Hints:    opts.Hints,
		Fishing:  opts.Fishing,
		OnConfig: func(c attachments.Config) { s.effect(TypeConfig, c) },
		Today:    h.Date,
	})
	if err != nil {
		return err
	}
	s.orch = orch

	logger.Info("game greeted", "owner", h.OwnerID, "date", h.Date.String(), "keys", len(values))
	s.send(TypeReady, env.ID, ReadyData{
		Items:   opts.Items.All(),
		Recipes: opts.Items.RecipeStrings(),
	})
	s.orch.Loaded()
	return nil
}

func (s *session) save() error {
	totalDays := s.orch.Today().TotalDays()
	if err := s.srv.opts.Store.SaveModData(s.ownerID, totalDays, s.data.Snapshot()); err != nil {
		return fmt.Errorf("failed to save mod data: %w", err)
	}
	s.data.MarkClean()
	logger.Debug("quest data saved", "owner", s.ownerID, "total_days", totalDays)
	return nil
}

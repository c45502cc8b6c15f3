package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"chosenoffset.com/sightline/visibility"
)

// streamState is the per-connection cache of prepared segments. A client
// moving an observer through a fixed scene sends its obstacles once and
// then only observers.
type streamState struct {
	segments []visibility.Segment
	prepared bool
}

// handleStream answers each text message with a visibility response. A
// message without obstacles, segments or scene reuses the segments of the
// previous one.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", "request_id", requestIDFrom(r.Context()), "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.cfg.MaxBodyBytes)

	logger := s.logger.With("request_id", requestIDFrom(r.Context()))
	logger.Debug("stream opened")

	var state streamState
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("stream closed", "error", err)
			} else {
				logger.Debug("stream closed")
			}
			return
		}

		reply, err := s.streamReply(&state, message)
		if err != nil {
			reply = errorResponse{Error: err.Error()}
		}
		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn("failed to write stream reply", "error", err)
			return
		}
	}
}

func (s *Server) streamReply(state *streamState, message []byte) (interface{}, error) {
	var req visibilityRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}
	if req.Observer == nil {
		return nil, errors.New("observer is required")
	}

	reused := false
	switch {
	case req.Scene != "":
		sc, ok := s.scenes[req.Scene]
		if !ok {
			return nil, fmt.Errorf("unknown scene %q", req.Scene)
		}
		state.segments = sc.Segments()
		state.prepared = true
	case req.Obstacles != nil || req.Segments != nil:
		segments, err := s.prepare(&req)
		if err != nil {
			return nil, err
		}
		state.segments = segments
		state.prepared = true
	case state.prepared:
		reused = true
	default:
		return nil, errors.New("no obstacles sent on this connection yet")
	}

	resp := compute(&req, state.segments)
	resp.Reused = reused
	return resp, nil
}

package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/workstays/workstays-api/internal/pkg/platform"
)

// WebSocket constants
const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxFrameSize = 64 * 1024 // 64KB
)

// Frame types for the live assignment form. The client sends form, input,
// select_property, clear, submit and reset; the server answers with form,
// fill, cleared, lookup_error, submitted and submit_error.
const (
	frameForm           = "form"
	frameInput          = "input"
	frameSelectProperty = "select_property"
	frameClear          = "clear"
	frameSubmit         = "submit"
	frameReset          = "reset"

	frameFill        = "fill"
	frameCleared     = "cleared"
	frameLookupError = "lookup_error"
	frameSubmitted   = "submitted"
	frameSubmitError = "submit_error"
)

type wsFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type submitErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// propertySelection is the payload of a select_property frame
type propertySelection struct {
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name"`
	Postcode     string `json:"postcode"`
	LandlordID   string `json:"landlord_id"`
	LandlordName string `json:"landlord_name"`
}

// liveSession holds one admin's assignment form over a websocket. The
// session owns the authoritative FormModel: client edits arrive as form
// frames, debounced id lookups apply their fill server-side, and submit
// posts whatever the session holds. A session submits at most once until
// the client resets it.
type liveSession struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	service *Service
	lookup  *LookupSession

	mu        sync.Mutex
	form      FormModel
	submitted bool
}

// newLiveSession wires a session to one connection. debounce <= 0 uses
// the default; tests shorten it.
func newLiveSession(conn *websocket.Conn, service *Service, debounce time.Duration) *liveSession {
	s := &liveSession{
		conn:    conn,
		send:    make(chan []byte, 256),
		done:    make(chan struct{}),
		service: service,
	}
	s.lookup = NewLookupSession(service.LookupBooking, debounce, s.handleFill, s.handleLookupError, s.handleCleared)
	return s
}

func (s *liveSession) run() {
	go s.writeLoop()
	s.readLoop()
}

func (s *liveSession) readLoop() {
	defer func() {
		s.lookup.Stop()
		close(s.done)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxFrameSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("Assignment session read error")
			}
			return
		}

		var frame wsFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			continue
		}
		s.handleFrame(frame)
	}
}

func (s *liveSession) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *liveSession) handleFrame(frame wsFrame) {
	switch frame.Type {
	case frameForm:
		var form FormModel
		if err := json.Unmarshal(frame.Data, &form); err != nil {
			return
		}
		s.mu.Lock()
		s.form = form
		s.mu.Unlock()

	case frameInput:
		var data struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return
		}
		s.lookup.Input(data.Value)

	case frameSelectProperty:
		s.handleSelectProperty(frame.Data)

	case frameClear:
		s.lookup.Clear()

	case frameSubmit:
		s.handleSubmit(frame.Data)

	case frameReset:
		s.handleReset()
	}
}

func (s *liveSession) handleSubmit(data json.RawMessage) {
	s.mu.Lock()
	if s.submitted {
		s.mu.Unlock()
		s.push(frameSubmitError, submitErrorData{
			Code:    "duplicate",
			Message: "Assignment already submitted, reset the form to start another",
		})
		return
	}
	if len(data) > 0 {
		var form FormModel
		if err := json.Unmarshal(data, &form); err == nil {
			s.form = form
		}
	}
	form := s.form
	s.mu.Unlock()

	conf, err := s.service.Submit(context.Background(), form)
	if err != nil {
		s.push(frameSubmitError, submitError(err))
		return
	}

	s.mu.Lock()
	s.submitted = true
	s.mu.Unlock()
	s.push(frameSubmitted, map[string]string{"message": conf.Message})
}

// handleSelectProperty merges a property pick into the form. A postcode the
// admin already typed wins over the one attached to the property.
func (s *liveSession) handleSelectProperty(data json.RawMessage) {
	var sel propertySelection
	if err := json.Unmarshal(data, &sel); err != nil {
		return
	}
	s.mu.Lock()
	s.form.PropertyID = sel.PropertyID
	s.form.PropertyName = sel.PropertyName
	s.form.LandlordID = sel.LandlordID
	s.form.LandlordName = sel.LandlordName
	if s.form.Postcode == "" {
		s.form.Postcode = sel.Postcode
	}
	form := s.form
	s.mu.Unlock()
	s.push(frameForm, form)
}

func (s *liveSession) handleReset() {
	s.lookup.Stop()
	s.mu.Lock()
	s.form = FormModel{}
	s.submitted = false
	s.mu.Unlock()
	s.push(frameCleared, nil)
}

func (s *liveSession) handleFill(fill *LookupFill) {
	s.mu.Lock()
	s.form.Apply(fill)
	s.mu.Unlock()
	s.push(frameFill, fill)
}

func (s *liveSession) handleLookupError(err error) {
	s.push(frameLookupError, map[string]string{"message": err.Error()})
}

func (s *liveSession) handleCleared() {
	s.mu.Lock()
	s.form.ClearLookupFields()
	s.mu.Unlock()
	s.push(frameCleared, nil)
}

func (s *liveSession) push(frameType string, data interface{}) {
	frame := wsFrame{Type: frameType}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return
		}
		frame.Data = raw
	}
	msg, err := json.Marshal(frame)
	if err != nil {
		return
	}

	select {
	case s.send <- msg:
	case <-s.done:
	default:
		log.Warn().Str("frame", frameType).Msg("Assignment session send buffer full, frame dropped")
	}
}

// submitError maps a submission failure to its wire shape. Known platform
// rejections keep the platform's own message when one came back.
func submitError(err error) submitErrorData {
	switch {
	case errors.Is(err, ErrMissingBookingDate),
		errors.Is(err, ErrMissingProperty),
		errors.Is(err, ErrMissingStartDate),
		errors.Is(err, ErrMissingEndDate):
		return submitErrorData{Code: "validation", Message: err.Error()}
	case errors.Is(err, ErrAlreadyActive):
		return submitErrorData{Code: "already_active", Message: platformMessage(err, ErrAlreadyActive.Error())}
	case errors.Is(err, ErrDateConflict):
		return submitErrorData{Code: "date_conflict", Message: platformMessage(err, ErrDateConflict.Error())}
	}
	return submitErrorData{Code: "unknown", Message: platformMessage(err, "Assignment submission failed")}
}

func platformMessage(err error, fallback string) string {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

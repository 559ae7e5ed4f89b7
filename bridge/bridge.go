// Package bridge connects a browser host to the scene manager over websocket.
// Pointer events come in as JSON messages and hover/click notifications go
// out to every connected client.
package bridge

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/binzume/tbmscene/identity"
	"github.com/binzume/tbmscene/interact"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 32
)

// Message types.
const (
	TypeMove     = "move"
	TypeClick    = "click"
	TypeDblClick = "dblclick"
	TypeResize   = "resize"
	TypeReset    = "reset"
	TypeHover    = "hover"
	TypeUnhover  = "unhover"
	TypeProgress = "progress"
)

type Message struct {
	Type   string  `json:"type"`
	X      float32 `json:"x,omitempty"`
	Y      float32 `json:"y,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Name   string  `json:"name,omitempty"`
	ID     string  `json:"id,omitempty"`
	Value  float64 `json:"value,omitempty"`
	Unit   string  `json:"unit,omitempty"`
}

// Scene is the part of the scene manager driven by the host.
type Scene interface {
	PointerMove(x, y float32)
	Click()
	DoubleClick(x, y float32)
	Resize(width, height int)
	Reset()
	SetPopupHandlers(onHover interact.HoverHandler, onUnhover interact.UnhoverHandler)
	SetInfoHandlers(onClick interact.ClickHandler)
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

func (c *client) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("bridge: write: %v", err)
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}

type Server struct {
	scene    Scene
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer installs the popup and info handlers of scene.
func NewServer(scene Scene) *Server {
	s := &Server{
		scene:   scene,
		clients: map[*client]struct{}{},
	}
	scene.SetPopupHandlers(func(name string, pos interact.Point) {
		s.Broadcast(Message{Type: TypeHover, Name: name, X: pos.X, Y: pos.Y})
	}, func() {
		s.Broadcast(Message{Type: TypeUnhover})
	})
	scene.SetInfoHandlers(func(p *identity.Part) {
		if p == nil {
			return
		}
		s.Broadcast(Message{Type: TypeClick, ID: p.ID, Name: p.Name, Value: p.Value, Unit: p.Unit})
	})
	return s
}

// Broadcast queues msg for every client. Slow clients drop messages.
func (s *Server) Broadcast(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
			log.Printf("bridge: %s dropped for %s", msg.Type, c.conn.RemoteAddr())
		}
	}
}

func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("bridge: upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan Message, sendBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	go c.writeLoop()

	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		close(c.send)
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("bridge: read: %v", err)
			}
			return
		}
		s.dispatch(&msg)
	}
}

func (s *Server) dispatch(msg *Message) {
	switch msg.Type {
	case TypeMove:
		s.scene.PointerMove(msg.X, msg.Y)
	case TypeClick:
		s.scene.Click()
	case TypeDblClick:
		s.scene.DoubleClick(msg.X, msg.Y)
	case TypeResize:
		s.scene.Resize(msg.Width, msg.Height)
	case TypeReset:
		s.scene.Reset()
	default:
		log.Printf("bridge: unknown message type %q", msg.Type)
	}
}

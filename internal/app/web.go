package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/balancing_robot/internal/config"
	"github.com/relabs-tech/balancing_robot/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WSMessage is a browser command.
type WSMessage struct {
	Action   string  `json:"action"` // arm, disarm, mode, drive, led
	Mode     int     `json:"mode,omitempty"`
	Throttle float64 `json:"throttle,omitempty"`
	Turn     float64 `json:"turn,omitempty"`
}

// WSResponse is pushed to browsers.
type WSResponse struct {
	Type    string           `json:"type"` // telemetry, error
	Frame   *telemetry.Frame `json:"frame,omitempty"`
	Message string           `json:"message,omitempty"`
}

// line renders m as a command line understood by the controller.
func (m WSMessage) line() (string, error) {
	switch m.Action {
	case "arm":
		return "ARM", nil
	case "disarm":
		return "DISARM", nil
	case "led":
		return "LED", nil
	case "mode":
		if m.Mode < 0 || m.Mode > 255 {
			return "", fmt.Errorf("mode %d out of range", m.Mode)
		}
		return fmt.Sprintf("MODE:%d", m.Mode), nil
	case "drive":
		return fmt.Sprintf("M:%.2f,%.2f", m.Throttle, m.Turn), nil
	default:
		return "", fmt.Errorf("unknown action %q", m.Action)
	}
}

type wsClient struct {
	conn *websocket.Conn
	send chan WSResponse
}

// webServer fans telemetry frames out to browsers and forwards their
// commands through publish.
type webServer struct {
	publish func(line string) error

	mu      sync.RWMutex
	latest  telemetry.Frame
	have    bool
	clients map[*wsClient]struct{}
}

func newWebServer(publish func(line string) error) *webServer {
	return &webServer{publish: publish, clients: make(map[*wsClient]struct{})}
}

// update records f and queues it for every browser. Slow browsers miss
// frames rather than stall the MQTT callback.
func (s *webServer) update(f telemetry.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = f
	s.have = true
	for c := range s.clients {
		select {
		case c.send <- WSResponse{Type: "telemetry", Frame: &f}:
		default:
		}
	}
}

func (s *webServer) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *webServer) handler(static http.FileSystem) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/telemetry", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		if !s.have {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.latest); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	mux.HandleFunc("/ws", s.serveWS)
	mux.Handle("/", http.FileServer(static))
	return mux
}

func (s *webServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}

	c := &wsClient{conn: conn, send: make(chan WSResponse, 16)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.have {
		f := s.latest
		c.send <- WSResponse{Type: "telemetry", Frame: &f}
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for resp := range c.send {
			if err := conn.WriteJSON(resp); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
		}
	}()

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		line, err := msg.line()
		if err == nil {
			err = s.publish(line)
		}
		if err != nil {
			select {
			case c.send <- WSResponse{Type: "error", Message: err.Error()}:
			default:
			}
			continue
		}
		log.Printf("web: command %q", line)
	}

	s.mu.Lock()
	delete(s.clients, c)
	close(c.send)
	s.mu.Unlock()
	<-done
	conn.Close()
}

// RunWeb serves the operator page: live telemetry from MQTT over a
// websocket and a JSON snapshot, with browser commands republished to the
// command topic.
func RunWeb() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	srv := newWebServer(func(line string) error {
		token := client.Publish(cfg.TopicCommand, 1, false, line)
		token.Wait()
		return token.Error()
	})

	if err := telemetry.Subscribe(client, cfg.TopicTelemetry, srv.update); err != nil {
		return fmt.Errorf("web: subscribe %s: %w", cfg.TopicTelemetry, err)
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicTelemetry)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, srv.handler(http.Dir("web")))
}

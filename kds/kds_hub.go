package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/utils"
)

const (
	EventOrderCreated = "order_created"

	writeWait  = 5 * time.Second
	sendBuffer = 16
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OrderCreated is the payload of an order_created event.
type OrderCreated struct {
	ID          uint            `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`
	CashierID   uint            `json:"cashierId"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type client struct {
	conn   *websocket.Conn
	role   string
	userID uint
	send   chan []byte
}

// writePump owns all writes to the connection until send is closed or a write fails.
func (cl *client) writePump(h *Hub) {
	for data := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"user_id": cl.userID,
				"role":    cl.role,
			}).WithError(err).Warn("dropping feed client")
			h.UnregisterClient(cl.conn)
			return
		}
	}
}

// Hub fans committed orders out to every connected live feed client.
// Broadcast never blocks on a client; a client whose queue is full is dropped.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, role string, userID uint) {
	cl := &client{conn: conn, role: role, userID: userID, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	h.clients[conn] = cl
	h.mutex.Unlock()
	go cl.writePump(h)
}

func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	cl, ok := h.clients[conn]
	delete(h.clients, conn)
	if ok {
		close(cl.send)
	}
	h.mutex.Unlock()
	if ok {
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Serve registers conn and blocks reading until the client goes away.
func (h *Hub) Serve(conn *websocket.Conn, role string, userID uint) {
	h.RegisterClient(conn, role, userID)
	defer h.UnregisterClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// PublishOrderCreated implements services.OrderPublisher.
func (h *Hub) PublishOrderCreated(order *models.Order) {
	h.Broadcast(Message{
		Event: EventOrderCreated,
		Data: OrderCreated{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			GrandTotal:  order.GrandTotal,
			CashierID:   order.CashierID,
			CreatedAt:   order.CreatedAt,
		},
	})
}

func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("event", msg.Event).Error("failed to marshal feed message")
		return
	}

	// Sends happen under the read lock so UnregisterClient cannot close a queue mid-send.
	h.mutex.RLock()
	delivered := len(h.clients)
	var slow []*client
	for _, cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			slow = append(slow, cl)
		}
	}
	h.mutex.RUnlock()

	for _, cl := range slow {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"event":   msg.Event,
			"user_id": cl.userID,
			"role":    cl.role,
		}).Warn("feed client too slow, dropping")
		h.UnregisterClient(cl.conn)
	}

	utils.InfoLogger.WithFields(logrus.Fields{"event": msg.Event, "clients": delivered - len(slow)}).Debug("feed message broadcast")
}

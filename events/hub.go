package events

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/kasirhub/pos-app/models"
	"github.com/kasirhub/pos-app/utils"
)

// Event types
const (
	EventOrderCreated   = "order_created"
	EventOrderStatus    = "order_status"
	EventPaymentApplied = "payment_applied"
	EventOrderRefunded  = "order_refunded"
)

type Message struct {
	Event    string      `json:"event"`
	TenantID uint        `json:"tenant_id"`
	Data     interface{} `json:"data"`
}

// Hub menampung koneksi websocket per tenant dan menyiarkan event lifecycle
// order/payment ke semua client tenant tersebut.
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> tenantID
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]uint),
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler meng-upgrade request menjadi koneksi websocket untuk tenant di
// context (diisi auth middleware).
func Handler(c *gin.Context) {
	tenantID := c.GetUint("tenant_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket upgrade failed: %v", err)
		return
	}

	register(conn, tenantID)
	go func() {
		defer unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func register(conn *websocket.Conn, tenantID uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = tenantID
}

func unregister(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

func BroadcastOrderCreated(order *models.Order) {
	broadcast(Message{Event: EventOrderCreated, TenantID: order.TenantID, Data: order})
}

func BroadcastOrderStatus(order *models.Order) {
	broadcast(Message{Event: EventOrderStatus, TenantID: order.TenantID, Data: order})
}

func BroadcastPaymentApplied(payment *models.Payment) {
	broadcast(Message{Event: EventPaymentApplied, TenantID: payment.TenantID, Data: payment})
}

func BroadcastOrderRefunded(order *models.Order) {
	broadcast(Message{Event: EventOrderRefunded, TenantID: order.TenantID, Data: order})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for conn, tenantID := range hub.clients {
		if tenantID != msg.TenantID {
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}

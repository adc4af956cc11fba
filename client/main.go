package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Inbound message IDs (must mirror network/protocol.go).
const (
	msgStartGame      = 101
	msgSelectClue     = 102
	msgSubmitDDWager  = 103
	msgBuzz           = 104
	msgSubmitAnswer   = 105
	msgNextClue       = 106
	msgStartNextRound = 107
	msgSubmitFJWager  = 108
	msgSubmitFJAnswer = 109
)

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func post(baseURL, path string, body interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: %v", resp.Status, result["error"])
	}
	return result, nil
}

func main() {
	host := flag.String("host", "localhost:8080", "server address")
	name := flag.String("name", "player", "display name")
	joinCode := flag.String("join", "", "room code to join (empty creates a room)")
	flag.Parse()

	baseURL := "http://" + *host

	var roomCode, playerID string
	if *joinCode == "" {
		resp, err := post(baseURL, "/rooms", map[string]string{"name": *name})
		if err != nil {
			log.Fatalf("Create room failed: %v", err)
		}
		roomCode = resp["room_code"].(string)
		playerID = resp["player_id"].(string)
		log.Printf("Created room %s as %s", roomCode, playerID)
	} else {
		roomCode = strings.ToUpper(*joinCode)
		resp, err := post(baseURL, "/rooms/"+roomCode+"/join", map[string]string{"name": *name})
		if err != nil {
			log.Fatalf("Join room failed: %v", err)
		}
		playerID = resp["player_id"].(string)
		log.Printf("Joined room %s as %s", roomCode, playerID)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *host, Path: "/ws/" + roomCode + "/" + playerID}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
		}
	}()

	fmt.Println("Commands: start | pick CATEGORY VALUE | wager N | buzz | answer TEXT | next | round | fjwager N | fjanswer TEXT | quit")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(strings.TrimSpace(text))
			if len(fields) == 0 {
				continue
			}

			msgID, payload, ok := buildCommand(fields)
			if !ok {
				continue
			}
			if msgID == 0 {
				return // quit
			}
			if err := send(c, msgID, payload); err != nil {
				log.Println("Write error:", err)
				return
			}
			log.Printf("-> SENT (ID: %d): %s", msgID, string(payload))
		}
	}
}

// buildCommand maps one stdin line to a message. ok is false on bad input;
// msgID 0 with ok means quit.
func buildCommand(fields []string) (uint16, []byte, bool) {
	marshal := func(v interface{}) []byte {
		data, _ := json.Marshal(v)
		return data
	}

	switch fields[0] {
	case "quit":
		return 0, nil, true
	case "start":
		return msgStartGame, nil, true
	case "buzz":
		return msgBuzz, nil, true
	case "next":
		return msgNextClue, nil, true
	case "round":
		return msgStartNextRound, nil, true
	case "pick":
		if len(fields) < 3 {
			log.Println("usage: pick CATEGORY VALUE")
			return 0, nil, false
		}
		value, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			log.Println("usage: pick CATEGORY VALUE")
			return 0, nil, false
		}
		category := strings.Join(fields[1:len(fields)-1], " ")
		return msgSelectClue, marshal(map[string]interface{}{"category": category, "value": value}), true
	case "wager", "fjwager":
		if len(fields) != 2 {
			log.Printf("usage: %s AMOUNT", fields[0])
			return 0, nil, false
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil {
			log.Printf("usage: %s AMOUNT", fields[0])
			return 0, nil, false
		}
		msgID := uint16(msgSubmitDDWager)
		if fields[0] == "fjwager" {
			msgID = msgSubmitFJWager
		}
		return msgID, marshal(map[string]int{"wager": amount}), true
	case "answer", "fjanswer":
		if len(fields) < 2 {
			log.Printf("usage: %s TEXT", fields[0])
			return 0, nil, false
		}
		msgID := uint16(msgSubmitAnswer)
		if fields[0] == "fjanswer" {
			msgID = msgSubmitFJAnswer
		}
		return msgID, marshal(map[string]string{"answer": strings.Join(fields[1:], " ")}), true
	default:
		log.Printf("unknown command %q", fields[0])
		return 0, nil, false
	}
}

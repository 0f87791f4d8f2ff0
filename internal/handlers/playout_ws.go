package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-agent/internal/player"
)

/*
Watch upgrades to a websocket and lets the client drive the
agent interactively: "step" plays one turn, "run" plays to the
end, "state" just reports. Every command is answered with the
full playout snapshot.
*/
func (h *PlayoutHandler) Watch(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade connection", "error", err)
		return
	}
	defer c.Close()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "error", err)
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}

		var dto *PlayoutDTO
		switch command := strings.TrimSpace(string(message)); command {
		case "step":
			session.Do(func(p *player.Player) {
				p.Step()
				dto = NewPlayoutDTO(session.PlayoutId, p)
			})
		case "run":
			session.Do(func(p *player.Player) {
				p.Play()
				dto = NewPlayoutDTO(session.PlayoutId, p)
			})
		case "state":
			session.Do(func(p *player.Player) {
				dto = NewPlayoutDTO(session.PlayoutId, p)
			})
		default:
			if err := c.WriteJSON(wrapError(
				errUnknownCommand(command),
			)); err != nil {
				h.logger.Error("websocket write failed", "error", err)
				return
			}
			continue
		}

		h.persist(r, session)

		if err := c.WriteJSON(dto); err != nil {
			h.logger.Error("websocket write failed", "error", err)
			break
		}

		if dto.Status != player.Playing.String() {
			break
		}
	}
}

type errUnknownCommand string

func (e errUnknownCommand) Error() string {
	return "unknown command " + strconv.Quote(string(e))
}

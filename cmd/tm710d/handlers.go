package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dougsko/tm710/pkg/logging"
	"github.com/dougsko/tm710/pkg/protocol"
	"github.com/dougsko/tm710/pkg/storage"
)

// httpStatus maps a command response to an HTTP status code
func httpStatus(resp *protocol.Response) int {
	switch {
	case resp.Success:
		return http.StatusOK
	case resp.ErrorKind == protocol.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// handleGetStatus returns the daemon status and a summary of both sides
func (d *Daemon) handleGetStatus(c *gin.Context) {
	status, err := d.status()
	if err != nil {
		resp := protocol.NewErrorResponse(err, nil)
		c.JSON(httpStatus(resp), resp)
		return
	}
	c.JSON(http.StatusOK, status)
}

// handleGetInfo returns the INFO report
func (d *Daemon) handleGetInfo(c *gin.Context) {
	resp := d.execute(&protocol.Command{Command: "get info"})
	c.JSON(httpStatus(resp), resp)
}

// handleCommand runs one command line
func (d *Daemon) handleCommand(c *gin.Context) {
	var req protocol.Command
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, protocol.Response{
			Error:     fmt.Sprintf("invalid request body: %v", err),
			ErrorKind: protocol.KindValidation,
		})
		return
	}

	cmd, err := protocol.ParseCommand(req.Command)
	if err != nil {
		c.JSON(http.StatusBadRequest, protocol.Response{Error: err.Error(), ErrorKind: protocol.KindValidation})
		return
	}

	resp := d.execute(cmd)
	c.JSON(httpStatus(resp), resp)
}

// handleGetJournal returns recent radio transactions, optionally filtered
// by opcode and to failed exchanges
func (d *Daemon) handleGetJournal(c *gin.Context) {
	if d.journal == nil {
		c.JSON(http.StatusServiceUnavailable, protocol.Response{Error: "journal is disabled"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, protocol.Response{Error: "invalid limit", ErrorKind: protocol.KindValidation})
		return
	}

	entries, err := d.journal.GetEntries(storage.JournalQuery{
		Limit:      limit,
		Opcode:     c.Query("opcode"),
		ErrorsOnly: c.Query("errors") == "true",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, protocol.Response{Error: err.Error(), ErrorKind: protocol.KindInternal})
		return
	}
	if entries == nil {
		entries = []protocol.JournalEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// handleGetJournalStats returns journal statistics
func (d *Daemon) handleGetJournalStats(c *gin.Context) {
	if d.journal == nil {
		c.JSON(http.StatusServiceUnavailable, protocol.Response{Error: "journal is disabled"})
		return
	}

	stats, err := d.journal.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, protocol.Response{Error: err.Error(), ErrorKind: protocol.KindInternal})
		return
	}
	c.JSON(http.StatusOK, stats)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleWebSocket is a command console: each text frame is one command
// line and each reply is a JSON Response
func (d *Daemon) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn("daemon", fmt.Sprintf("WebSocket upgrade failed: %v", err))
		return
	}
	defer conn.Close()

	if !d.addConsole(conn) {
		return
	}
	defer d.removeConsole(conn)

	logging.Info("daemon", "WebSocket client connected", map[string]interface{}{"remote": c.Request.RemoteAddr})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debug("daemon", fmt.Sprintf("WebSocket read error: %v", err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var resp *protocol.Response
		cmd, err := protocol.ParseCommand(string(data))
		if err != nil {
			resp = &protocol.Response{Error: err.Error(), ErrorKind: protocol.KindValidation}
		} else {
			resp = d.execute(cmd)
		}

		if err := conn.WriteJSON(resp); err != nil {
			logging.Debug("daemon", fmt.Sprintf("WebSocket write error: %v", err))
			return
		}

		select {
		case <-d.ctx.Done():
			return
		default:
		}
	}
}

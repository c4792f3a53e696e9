package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dougsko/tm710/pkg/cat"
	"github.com/dougsko/tm710/pkg/command"
	"github.com/dougsko/tm710/pkg/config"
	"github.com/dougsko/tm710/pkg/logging"
	"github.com/dougsko/tm710/pkg/protocol"
	"github.com/dougsko/tm710/pkg/storage"
	"github.com/dougsko/tm710/pkg/tables"
	"github.com/dougsko/tm710/pkg/transport"
)

// Daemon owns the serial link and serializes every remote caller onto it
type Daemon struct {
	config *config.Config
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards radio and dispatcher; the radio layer does no locking
	mu         sync.Mutex
	radio      *cat.Radio
	dispatcher *command.Dispatcher
	journal    *storage.JournalStore

	router    *gin.Engine
	webServer *http.Server
	startTime time.Time

	// Shutdown does not see hijacked connections, so Stop closes the
	// websocket consoles itself
	consoleMu sync.Mutex
	consoles  map[*websocket.Conn]struct{}
	consoleWG sync.WaitGroup
	stopping  bool
}

// NewDaemon creates a daemon on top of an open transport. When the journal
// is enabled every exchange on t is recorded.
func NewDaemon(cfg *config.Config, t transport.Transport) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
		consoles:  make(map[*websocket.Conn]struct{}),
	}

	if cfg.Storage.JournalEnabled {
		journal, err := storage.NewJournalStore(cfg.Storage.DatabasePath, cfg.Storage.MaxEntries)
		if err != nil {
			cancel()
			return nil, err
		}
		d.journal = journal
		t = storage.NewJournaledTransport(t, journal)
	}

	radio, err := cat.NewRadio(t, cat.Options{
		ModulationOrder:    tables.ModulationOrder(cfg.Radio.ModulationOrder),
		AutoRepeaterOffset: cfg.RepeaterOffsetEnabled(),
		MemoryEdit:         cfg.MemoryEditPolicy(),
	})
	if err != nil {
		d.closeJournal()
		cancel()
		return nil, err
	}
	d.radio = radio
	d.dispatcher = command.New(radio)

	d.setupWebServer()
	return d, nil
}

// OpenTransport opens the serial device named in the configuration
func OpenTransport(cfg *config.Config) (transport.Transport, error) {
	return transport.OpenSerial(transport.SerialConfig{
		Device:   cfg.Radio.Device,
		BaudRate: cfg.Radio.BaudRate,
		Timeout:  time.Duration(cfg.Radio.TimeoutMS) * time.Millisecond,
	})
}

// Start starts the web server
func (d *Daemon) Start() error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		logging.Info("daemon", fmt.Sprintf("Starting web server on %s", d.webServer.Addr))
		if err := d.webServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("daemon", fmt.Sprintf("Web server error: %v", err))
		}
	}()
	return nil
}

// Stop stops the daemon gracefully and closes the radio
func (d *Daemon) Stop() error {
	logging.Info("daemon", "Stopping daemon...")
	d.cancel()

	if d.webServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.webServer.Shutdown(ctx); err != nil {
			logging.Warn("daemon", fmt.Sprintf("Web server shutdown error: %v", err))
		}
	}
	d.closeConsoles()
	d.wg.Wait()
	d.consoleWG.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.radio.Close()
	d.closeJournal()

	logging.Info("daemon", "Daemon stopped")
	return err
}

// addConsole registers an open websocket console. It refuses once Stop has
// begun.
func (d *Daemon) addConsole(conn *websocket.Conn) bool {
	d.consoleMu.Lock()
	defer d.consoleMu.Unlock()
	if d.stopping {
		return false
	}
	d.consoles[conn] = struct{}{}
	d.consoleWG.Add(1)
	return true
}

func (d *Daemon) removeConsole(conn *websocket.Conn) {
	d.consoleMu.Lock()
	defer d.consoleMu.Unlock()
	if _, ok := d.consoles[conn]; ok {
		delete(d.consoles, conn)
		d.consoleWG.Done()
	}
}

// closeConsoles closes every open console, which unblocks its reader
func (d *Daemon) closeConsoles() {
	d.consoleMu.Lock()
	defer d.consoleMu.Unlock()
	d.stopping = true
	for conn := range d.consoles {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "daemon stopping"),
			time.Now().Add(time.Second))
		conn.Close()
	}
}

// openConsoles returns the number of connected websocket consoles
func (d *Daemon) openConsoles() int {
	d.consoleMu.Lock()
	defer d.consoleMu.Unlock()
	return len(d.consoles)
}

func (d *Daemon) closeJournal() {
	if d.journal != nil {
		if err := d.journal.Close(); err != nil {
			logging.Warn("daemon", fmt.Sprintf("journal close error: %v", err))
		}
	}
}

// setupWebServer initializes the router and routes
func (d *Daemon) setupWebServer() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(), gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.GET("/status", d.handleGetStatus)
		api.GET("/info", d.handleGetInfo)
		api.POST("/command", d.handleCommand)
		api.GET("/journal", d.handleGetJournal)
		api.GET("/journal/stats", d.handleGetJournalStats)
		api.GET("/ws", d.handleWebSocket)
	}

	d.router = router
	d.webServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", d.config.Web.BindAddress, d.config.Web.Port),
		Handler: router,
	}
}

// requestLogger logs each request through the component logger
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Debug("http", fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path), map[string]interface{}{
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
	}
}

// execute runs one command with exclusive use of the radio
func (d *Daemon) execute(cmd *protocol.Command) *protocol.Response {
	d.mu.Lock()
	defer d.mu.Unlock()

	lines, err := d.dispatcher.Run(cmd.Args())
	if err != nil {
		logging.Warn("daemon", fmt.Sprintf("command %q failed: %v", cmd.Command, err))
		return protocol.NewErrorResponse(err, lines)
	}
	return protocol.NewSuccessResponse(lines)
}

// status reads the model and both sides with exclusive use of the radio
func (d *Daemon) status() (*protocol.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := &protocol.Status{
		Device:    d.config.Radio.Device,
		BaudRate:  d.config.Radio.BaudRate,
		StartTime: d.startTime,
		Uptime:    time.Since(d.startTime).Round(time.Second).String(),
		Version:   Version,
		Consoles:  d.openConsoles(),
	}

	model, err := d.radio.Model()
	if err != nil {
		return status, err
	}
	status.Model = model

	for _, side := range tables.Sides {
		lines, err := d.dispatcher.Run([]string{"get", side.String()})
		if err != nil {
			return status, err
		}
		status.Sides = append(status.Sides, lines...)
	}
	return status, nil
}

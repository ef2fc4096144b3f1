// Package rbn maintains the telnet connection to the Reverse Beacon Network
// feed, answers the login challenge, and turns matching feed lines into spot
// events. Lines that fail the admission filters are discarded silently; a
// dropped connection is retried with exponential backoff for the process
// lifetime.
package rbn

import (
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ziutek/telnet"

	"rbnmap/spot"
)

// loginChallenge is the prompt the RBN server sends before streaming spots.
const loginChallenge = "Please enter your call:"

// readTimeout bounds each line read so the loop stays responsive to shutdown
// even when the feed is quiet.
const readTimeout = 1 * time.Second

// Filters is the admission policy applied to every parsed line, in order:
// mode, trusted spotter, General sub-band (optional), band allow-list.
type Filters struct {
	Mode        string              // accepted mode, normally "CW"
	Trusted     map[string]struct{} // skimmer callsigns selected at startup
	GeneralOnly bool                // drop spots outside the General sub-band
	Bands       map[string]struct{} // band labels to keep
}

// NewFilters builds the admission policy from configuration values.
func NewFilters(mode string, trusted map[string]struct{}, generalOnly bool, bands []string) Filters {
	allowed := make(map[string]struct{}, len(bands))
	for _, b := range bands {
		allowed[b] = struct{}{}
	}
	return Filters{Mode: mode, Trusted: trusted, GeneralOnly: generalOnly, Bands: allowed}
}

// Client is the RBN feed client.
type Client struct {
	host      string
	port      int
	callsign  string
	filters   Filters
	conn      *telnet.Conn
	connected atomic.Bool
	shutdown  chan struct{}
	reconnect chan struct{}
	stopOnce  sync.Once
	spotChan  chan *spot.Spot
}

// NewClient creates a feed client. Connect must be called before spots flow.
func NewClient(host string, port int, callsign string, filters Filters) *Client {
	return &Client{
		host:      host,
		port:      port,
		callsign:  callsign,
		filters:   filters,
		shutdown:  make(chan struct{}),
		reconnect: make(chan struct{}, 1),
		spotChan:  make(chan *spot.Spot, 100),
	}
}

// Connect establishes the initial feed connection and starts the supervision
// loop. The first dial runs synchronously so failures are reported to the
// caller; subsequent disconnects are handled by the reconnect loop.
func (c *Client) Connect() error {
	if err := c.establishConnection(); err != nil {
		return err
	}
	go c.connectionSupervisor()
	return nil
}

func (c *Client) establishConnection() error {
	addr := net.JoinHostPort(c.host, fmt.Sprintf("%d", c.port))
	log.Printf("RBN: connecting to %s...", addr)

	conn, err := telnet.DialTimeout("tcp", addr, 30*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to RBN: %w", err)
	}
	conn.SetUnixWriteMode(true)

	c.conn = conn
	c.connected.Store(true)
	log.Printf("RBN: connection established")

	go c.readLoop(conn)
	return nil
}

// connectionSupervisor waits for disconnect notifications and retries with
// exponential backoff while honoring shutdown.
func (c *Client) connectionSupervisor() {
	const (
		initialDelay = 5 * time.Second
		maxDelay     = 60 * time.Second
	)

	for {
		select {
		case <-c.shutdown:
			return
		case <-c.reconnect:
			if c.isShutdown() {
				return
			}
			delay := initialDelay
			for {
				if c.isShutdown() {
					return
				}
				log.Printf("RBN: attempting reconnect...")
				if err := c.establishConnection(); err != nil {
					log.Printf("RBN: reconnect failed: %v (retry in %s)", err, delay)
					timer := time.NewTimer(delay)
					select {
					case <-timer.C:
					case <-c.shutdown:
						timer.Stop()
						return
					}
					delay *= 2
					if delay > maxDelay {
						delay = maxDelay
					}
					continue
				}
				break
			}
		}
	}
}

// readLoop reads lines from the feed until the connection drops. Each read is
// bounded by readTimeout; a timeout is not an error, it just yields control
// so the shutdown channel gets checked.
func (c *Client) readLoop(conn *telnet.Conn) {
	defer func() {
		c.connected.Store(false)
		conn.Close()
	}()

	var partial string
	for {
		select {
		case <-c.shutdown:
			log.Println("RBN: client shutting down")
			return
		default:
			conn.SetReadDeadline(time.Now().Add(readTimeout))
			line, err := conn.ReadString('\n')
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					// ReadString hands back whatever it consumed before the
					// deadline; keep it so a line straddling the deadline
					// is not truncated.
					partial += line
					continue
				}
				if c.isShutdown() {
					return
				}
				log.Printf("RBN: read error: %v", err)
				c.requestReconnect()
				return
			}
			c.handleLine(conn, partial+line)
			partial = ""
		}
	}
}

// handleLine answers the login challenge and parses everything else. The
// connection is in unix write mode, so the newline goes out as CRLF.
func (c *Client) handleLine(conn *telnet.Conn, line string) {
	if containsChallenge(line) {
		log.Printf("RBN: logging in as %s", c.callsign)
		conn.Write([]byte(c.callsign + "\n"))
		return
	}
	c.parseLine(line)
}

// Spots returns the channel of accepted spot events.
func (c *Client) Spots() <-chan *spot.Spot {
	return c.spotChan
}

// IsConnected reports whether the feed connection is up. The render loop
// surfaces this in the display header.
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// Stop closes the feed connection and stops the supervisor.
func (c *Client) Stop() {
	log.Println("RBN: stopping client...")
	c.stopOnce.Do(func() {
		close(c.shutdown)
	})
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Client) isShutdown() bool {
	select {
	case <-c.shutdown:
		return true
	default:
		return false
	}
}

func (c *Client) requestReconnect() {
	if c.isShutdown() {
		return
	}
	select {
	case c.reconnect <- struct{}{}:
	default:
	}
}

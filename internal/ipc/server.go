package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/deskshell/internal/runtimepath"
)

// Handler executes requests. The desktop loop implements it; Serve is only
// called from the goroutine that drains Server.Calls.
type Handler interface {
	HandleIPC(req *Request) *Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(req *Request) *Response

func (f HandlerFunc) HandleIPC(req *Request) *Response {
	return f(req)
}

// Call is a request waiting for the desktop loop.
type Call struct {
	Request *Request
	reply   chan *Response
}

// Serve runs the call on h and hands the response back to the connection.
func (c Call) Serve(h Handler) {
	resp := h.HandleIPC(c.Request)
	if resp == nil {
		resp = NewErrorResponse("no response")
	}
	c.reply <- resp
}

// Server accepts connections on a unix socket and queues each request as a
// Call. Nothing on the connection goroutines touches desktop state.
type Server struct {
	socketPath   string
	listener     net.Listener
	calls        chan Call
	timeout      time.Duration
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a server on the runtime socket path.
func NewServer() (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath), nil
}

// NewServerAt creates a server on socketPath.
func NewServerAt(socketPath string) *Server {
	return &Server{
		socketPath: socketPath,
		calls:      make(chan Call),
		timeout:    5 * time.Second,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Calls delivers queued requests. The receiver must Serve every call it takes.
func (s *Server) Calls() <-chan Call {
	return s.calls
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// A stale socket from a crashed run blocks Listen.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) stopping() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * s.timeout))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.send(conn, s.dispatch(req))
}

// dispatch queues req and waits for the loop to answer.
func (s *Server) dispatch(req *Request) *Response {
	call := Call{Request: req, reply: make(chan *Response, 1)}
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case s.calls <- call:
	case <-timer.C:
		return NewErrorResponse("desktop is not accepting requests")
	}
	select {
	case resp := <-call.reply:
		return resp
	case <-timer.C:
		return NewErrorResponse("timed out waiting for the desktop")
	}
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// Stop closes the listener and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}

package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandNewWindow   CommandType = "NEW_WINDOW"
	CommandClose       CommandType = "CLOSE_WINDOW"
	CommandMinimize    CommandType = "MINIMIZE"
	CommandRestore     CommandType = "RESTORE"
	CommandMaximize    CommandType = "MAXIMIZE"
	CommandFocus       CommandType = "FOCUS"
	CommandMove        CommandType = "MOVE"
	CommandResize      CommandType = "RESIZE"
	CommandSetTitle    CommandType = "SET_TITLE"
	CommandAddTab      CommandType = "ADD_TAB"
	CommandRemoveTab   CommandType = "REMOVE_TAB"
	CommandSwitchTab   CommandType = "SWITCH_TAB"
	CommandArrange     CommandType = "ARRANGE"
	CommandRunAction   CommandType = "RUN_ACTION"
	CommandExec        CommandType = "EXEC"
	CommandSetTheme    CommandType = "SET_THEME"
	CommandListThemes  CommandType = "LIST_THEMES"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Session       string `json:"session"`
	Frontend      string `json:"frontend"`
	Theme         string `json:"theme"`
	WindowCount   int    `json:"window_count"`
	ActiveWindow  uint64 `json:"active_window,omitempty"`
	Menu          string `json:"menu"`
	Transaction   string `json:"transaction"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// WindowInfo describes one window, top-level or tab.
type WindowInfo struct {
	ID        uint64   `json:"id"`
	Title     string   `json:"title"`
	Kind      string   `json:"kind"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Z         int      `json:"z"` // position in z-order, 0 is the back; -1 for tabs
	Active    bool     `json:"active,omitempty"`
	Minimized bool     `json:"minimized,omitempty"`
	Maximized bool     `json:"maximized,omitempty"`
	Parent    uint64   `json:"parent,omitempty"`
	Tabs      []uint64 `json:"tabs,omitempty"`
	ActiveTab int      `json:"active_tab,omitempty"`
}

// WindowsData represents the data returned by LIST_WINDOWS, top-level
// windows in creation order followed by tabs.
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// WindowPayload addresses a single window.
type WindowPayload struct {
	ID uint64 `json:"id"`
}

// NewWindowPayload opens a window. Missing geometry fields come from the
// kind's launcher.
type NewWindowPayload struct {
	Kind   string `json:"kind"`
	Title  string `json:"title,omitempty"`
	X      *int   `json:"x,omitempty"`
	Y      *int   `json:"y,omitempty"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
}

type NewWindowData struct {
	ID uint64 `json:"id"`
}

type MovePayload struct {
	ID uint64 `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

type ResizePayload struct {
	ID     uint64 `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type TitlePayload struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// TabPayload serves ADD_TAB (Parent, Child) and REMOVE_TAB/SWITCH_TAB
// (Parent, Index).
type TabPayload struct {
	Parent uint64 `json:"parent"`
	Child  uint64 `json:"child,omitempty"`
	Index  int    `json:"index,omitempty"`
}

type ArrangePayload struct {
	Mode string `json:"mode"`
}

// ActionPayload runs a desktop action as if picked from a menu at X, Y.
type ActionPayload struct {
	Action string `json:"action"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
}

type ActionData struct {
	Launched uint64 `json:"launched,omitempty"`
}

// ExecPayload types a line into a terminal window.
type ExecPayload struct {
	ID   uint64 `json:"id"`
	Line string `json:"line"`
}

type ExecData struct {
	Output []string `json:"output"`
	Closed bool     `json:"closed,omitempty"`
}

type ThemePayload struct {
	Name string `json:"name"`
	Save bool   `json:"save,omitempty"`
}

type ThemesData struct {
	Themes  []string `json:"themes"`
	Current string   `json:"current"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: command is required")
	}
	return &req, nil
}

// DecodePayload unmarshals a request payload into T.
func DecodePayload[T any](req *Request) (T, error) {
	var out T
	if len(req.Payload) == 0 {
		return out, fmt.Errorf("%s: payload is required", req.Command)
	}
	if err := json.Unmarshal(req.Payload, &out); err != nil {
		return out, fmt.Errorf("invalid %s payload: %w", req.Command, err)
	}
	return out, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

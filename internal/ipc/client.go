package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskshell/internal/runtimepath"
)

// Client handles IPC communication with the desktop
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the runtime socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// sendRequest surfaces the connection error.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    10 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to desktop: %w (is deskshell running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("desktop error: %s", resp.Error)
	}
	return &resp, nil
}

// call sends command with payload and decodes the response data into out
// when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload asks the desktop to re-read its config.
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves desktop status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows returns every window, tabs included.
func (c *Client) ListWindows() ([]WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// NewWindow opens a window and returns its id.
func (c *Client) NewWindow(p NewWindowPayload) (uint64, error) {
	var data NewWindowData
	if err := c.call(CommandNewWindow, p, &data); err != nil {
		return 0, err
	}
	return data.ID, nil
}

func (c *Client) CloseWindow(id uint64) error {
	return c.call(CommandClose, WindowPayload{ID: id}, nil)
}

func (c *Client) Minimize(id uint64) error {
	return c.call(CommandMinimize, WindowPayload{ID: id}, nil)
}

func (c *Client) Restore(id uint64) error {
	return c.call(CommandRestore, WindowPayload{ID: id}, nil)
}

// ToggleMaximize maximizes a window, or restores it when already maximized.
func (c *Client) ToggleMaximize(id uint64) error {
	return c.call(CommandMaximize, WindowPayload{ID: id}, nil)
}

func (c *Client) Focus(id uint64) error {
	return c.call(CommandFocus, WindowPayload{ID: id}, nil)
}

func (c *Client) Move(id uint64, x, y int) error {
	return c.call(CommandMove, MovePayload{ID: id, X: x, Y: y}, nil)
}

func (c *Client) Resize(id uint64, width, height int) error {
	return c.call(CommandResize, ResizePayload{ID: id, Width: width, Height: height}, nil)
}

func (c *Client) SetTitle(id uint64, title string) error {
	return c.call(CommandSetTitle, TitlePayload{ID: id, Title: title}, nil)
}

func (c *Client) AddTab(parent, child uint64) error {
	return c.call(CommandAddTab, TabPayload{Parent: parent, Child: child}, nil)
}

func (c *Client) RemoveTab(parent uint64, index int) error {
	return c.call(CommandRemoveTab, TabPayload{Parent: parent, Index: index}, nil)
}

func (c *Client) SwitchTab(parent uint64, index int) error {
	return c.call(CommandSwitchTab, TabPayload{Parent: parent, Index: index}, nil)
}

// Arrange tiles or cascades the visible windows.
func (c *Client) Arrange(mode string) error {
	return c.call(CommandArrange, ArrangePayload{Mode: mode}, nil)
}

// RunAction executes a desktop action and returns the window it opened, if
// any.
func (c *Client) RunAction(p ActionPayload) (uint64, error) {
	var data ActionData
	if err := c.call(CommandRunAction, p, &data); err != nil {
		return 0, err
	}
	return data.Launched, nil
}

// Exec runs line in a terminal window.
func (c *Client) Exec(id uint64, line string) (*ExecData, error) {
	var data ExecData
	if err := c.call(CommandExec, ExecPayload{ID: id, Line: line}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) SetTheme(name string, save bool) error {
	return c.call(CommandSetTheme, ThemePayload{Name: name, Save: save}, nil)
}

func (c *Client) ListThemes() (*ThemesData, error) {
	var data ThemesData
	if err := c.call(CommandListThemes, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Ping checks if the desktop is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
